package domain

import "context"

// Provider answers "who owns this token on this host". Implementations
// must honour ctx cancellation where the underlying transport allows it.
type Provider interface {
	GetType() ProviderType

	CurrentUser(ctx context.Context, host, token string) (*User, error)
}
