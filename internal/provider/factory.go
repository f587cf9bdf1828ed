package provider

import (
	"fmt"
	"net/http"
	"time"

	"github.com/johanforsgren/glprofiles/internal/domain"
	"github.com/johanforsgren/glprofiles/internal/provider/common"
	"github.com/johanforsgren/glprofiles/internal/provider/github"
	"github.com/johanforsgren/glprofiles/internal/provider/gitlab"
)

// NewHTTPClient returns the client every provider shares. requestTimeout
// is a ceiling for abandoned requests; callers bound verification with
// their own, shorter, context deadline.
func NewHTTPClient(transport http.RoundTripper, requestTimeout time.Duration) *http.Client {
	return &http.Client{
		Transport: common.NewLoggingTransport(transport),
		Timeout:   requestTimeout,
	}
}

// New creates the provider for providerType.
func New(providerType domain.ProviderType, httpClient *http.Client) (domain.Provider, error) {
	switch providerType {
	case domain.ProviderGitLab, "":
		return gitlab.NewProvider(httpClient), nil
	case domain.ProviderGitHub:
		return github.NewProvider(httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
