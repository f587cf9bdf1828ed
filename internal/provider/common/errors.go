package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptyHost          = errors.New("host is empty")
	ErrUnreachable        = errors.New("server cannot be reached")
	ErrUnauthorized       = errors.New("token was rejected")
	ErrUnexpectedResponse = errors.New("unexpected response from server")
)

// WrapTransportError turns an error returned by an http.Client into one
// of the sentinel errors. Context errors are returned unwrapped so callers
// can tell a deadline from a dead host.
func WrapTransportError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

// StatusError maps a non-2xx status code to a sentinel error.
func StatusError(statusCode int, body string) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, statusCode)
	default:
		if len(body) > 200 {
			body = body[:200]
		}
		return fmt.Errorf("%w: status %d: %s", ErrUnexpectedResponse, statusCode, body)
	}
}
