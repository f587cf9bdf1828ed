package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/johanforsgren/glprofiles/internal/provider/common"
	"golang.org/x/oauth2"
)

const userPath = "/api/v4/user"

type Client struct {
	httpClient *http.Client
}

type gitlabUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// NewClient returns a client whose requests go through httpClient's
// transport. A nil httpClient means http.DefaultClient.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient}
}

func (c *Client) authorized(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), ts)
}

// GetUser calls the authenticated user endpoint of host.
func (c *Client) GetUser(ctx context.Context, host, token string) (*gitlabUser, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return nil, common.ErrEmptyHost
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+userPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", common.ErrUnreachable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.authorized(ctx, token).Do(req)
	if err != nil {
		return nil, common.WrapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, common.StatusError(resp.StatusCode, string(body))
	}

	var user gitlabUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode user: %v", common.ErrUnexpectedResponse, err)
	}
	if user.ID == 0 && user.Username == "" {
		return nil, fmt.Errorf("%w: response has no identity", common.ErrUnexpectedResponse)
	}

	return &user, nil
}
