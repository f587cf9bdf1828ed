package verifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/johanforsgren/glprofiles/internal/domain"
	"github.com/johanforsgren/glprofiles/internal/logger"
	"github.com/johanforsgren/glprofiles/internal/provider/common"
)

var log = logger.ForComponent("verifier")

// Verifier checks that a host/token pair is a live, authenticated endpoint.
// It keeps no state between calls and is safe for concurrent use.
type Verifier struct {
	provider domain.Provider
}

func New(provider domain.Provider) *Verifier {
	return &Verifier{provider: provider}
}

// Verify performs one authenticated round trip and never blocks longer
// than timeout. When the deadline passes first the call is cancelled and
// whatever it returns later is dropped.
func (v *Verifier) Verify(ctx context.Context, host, token string, timeout time.Duration) domain.Verdict {
	attempt := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Log("Verify[%s]: %s token=%s timeout=%v", attempt, host, logger.MaskToken(token), timeout)

	// Buffered so an abandoned call can always deliver and exit.
	results := make(chan domain.Verdict, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.LogError("VERIFY_PANIC", attempt, fmt.Errorf("%v", r))
				results <- domain.VerdictGeneralError
			}
		}()
		_, err := v.provider.CurrentUser(ctx, host, token)
		results <- Classify(err)
	}()

	var verdict domain.Verdict
	select {
	case verdict = <-results:
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			verdict = domain.VerdictTimeout
		} else {
			verdict = domain.VerdictGeneralError
		}
	}

	log.Log("Verify[%s]: %s -> %s", attempt, host, verdict)
	return verdict
}

// Classify maps a provider error to a verdict. Failures that fit no other
// bucket count as a rejected token.
func Classify(err error) domain.Verdict {
	switch {
	case err == nil:
		return domain.VerdictValid
	case errors.Is(err, context.DeadlineExceeded):
		return domain.VerdictTimeout
	case errors.Is(err, context.Canceled):
		return domain.VerdictGeneralError
	case errors.Is(err, common.ErrEmptyHost):
		return domain.VerdictInvalidURL
	case errors.Is(err, common.ErrUnreachable):
		return domain.VerdictUnreachable
	case errors.Is(err, common.ErrUnauthorized):
		return domain.VerdictInvalidToken
	default:
		return domain.VerdictInvalidToken
	}
}
