package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/johanforsgren/glprofiles/internal/provider/common"
	"golang.org/x/oauth2"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient}
}

func isPublicGitHub(host string) bool {
	switch host {
	case "https://github.com", "https://api.github.com":
		return true
	}
	return false
}

// forHost builds a go-github client authenticated with token. Hosts other
// than github.com are treated as GitHub Enterprise servers.
func (c *Client) forHost(ctx context.Context, host, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), ts)
	client := github.NewClient(tc)

	if isPublicGitHub(host) {
		return client, nil
	}

	enterprise, err := client.WithEnterpriseURLs(host+"/", host+"/")
	if err != nil {
		return nil, fmt.Errorf("%w: invalid enterprise URL: %v", common.ErrUnreachable, err)
	}
	return enterprise, nil
}

func (c *Client) GetUser(ctx context.Context, host, token string) (*github.User, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return nil, common.ErrEmptyHost
	}

	client, err := c.forHost(ctx, host, token)
	if err != nil {
		return nil, err
	}

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, classify(ctx, err)
	}
	if user.GetLogin() == "" {
		return nil, fmt.Errorf("%w: response has no login", common.ErrUnexpectedResponse)
	}
	return user, nil
}

func classify(ctx context.Context, err error) error {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return common.StatusError(errResp.Response.StatusCode, errResp.Message)
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %v", common.ErrUnexpectedResponse, rateErr)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || ctx.Err() != nil {
		return common.WrapTransportError(ctx, err)
	}

	return fmt.Errorf("%w: %v", common.ErrUnexpectedResponse, err)
}
