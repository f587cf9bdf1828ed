package gitlab

import (
	"context"
	"fmt"
	"net/http"

	"github.com/johanforsgren/glprofiles/internal/domain"
	"github.com/johanforsgren/glprofiles/internal/logger"
)

var log = logger.ForComponent("gitlab")

type Provider struct {
	client *Client
}

func NewProvider(httpClient *http.Client) *Provider {
	return &Provider{
		client: NewClient(httpClient),
	}
}

func (p *Provider) GetType() domain.ProviderType {
	return domain.ProviderGitLab
}

func (p *Provider) CurrentUser(ctx context.Context, host, token string) (*domain.User, error) {
	log.Log("GitLab: resolving token owner on %s", host)
	glUser, err := p.client.GetUser(ctx, host, token)
	if err != nil {
		log.LogError("GITLAB_CURRENT_USER", host, err)
		return nil, err
	}

	user := &domain.User{
		ID:       fmt.Sprintf("%d", glUser.ID),
		Username: glUser.Username,
		Name:     glUser.Name,
		Email:    glUser.Email,
	}
	log.Log("GitLab: token on %s belongs to %s", host, user.Username)
	return user, nil
}
