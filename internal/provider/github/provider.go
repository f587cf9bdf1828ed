package github

import (
	"context"
	"net/http"

	"github.com/johanforsgren/glprofiles/internal/domain"
	"github.com/johanforsgren/glprofiles/internal/logger"
	"github.com/johanforsgren/glprofiles/internal/provider/common"
)

var log = logger.ForComponent("github")

type Provider struct {
	client *Client
}

func NewProvider(httpClient *http.Client) *Provider {
	return &Provider{
		client: NewClient(httpClient),
	}
}

func (p *Provider) GetType() domain.ProviderType {
	return domain.ProviderGitHub
}

func (p *Provider) CurrentUser(ctx context.Context, host, token string) (*domain.User, error) {
	log.Log("GitHub: resolving token owner on %s", host)
	ghUser, err := p.client.GetUser(ctx, host, token)
	if err != nil {
		log.LogError("GITHUB_CURRENT_USER", host, err)
		return nil, err
	}

	user := &domain.User{
		ID:       common.GetInt64String(ghUser.ID),
		Username: common.GetString(ghUser.Login),
		Name:     common.GetString(ghUser.Name),
		Email:    common.GetString(ghUser.Email),
	}
	log.Log("GitHub: token on %s belongs to %s", host, user.Username)
	return user, nil
}
