package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/johanforsgren/glprofiles/internal/domain"
	"github.com/johanforsgren/glprofiles/internal/registry"
	"github.com/johanforsgren/glprofiles/internal/validation"
)

const DefaultValidationTimeout = 500 * time.Millisecond

var (
	ErrInvalidDraft      = errors.New("settings are not valid")
	ErrIncompleteProfile = errors.New("profile needs both a host and a token")
	ErrNoProfile         = errors.New("no profile at that row")
)

// Session wires the tracker and the registry to a repository. It is the
// single control path: it loads state once, persists after every
// registry change and on Apply.
type Session struct {
	repo     domain.Repository
	registry *registry.Registry
	tracker  *Tracker
	timeout  time.Duration
}

func Open(repo domain.Repository, verifier CredentialVerifier, timeout time.Duration) (*Session, error) {
	state, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultValidationTimeout
	}

	reg := registry.New(state.Servers)
	s := &Session{
		repo:     repo,
		registry: reg,
		tracker:  NewTracker(state.Settings, verifier, reg),
		timeout:  timeout,
	}
	s.tracker.OnTransition(func(tr Transition) {
		log.Log("Draft %s -> %s %s", tr.From, tr.To, tr.Verdict)
	})
	return s, nil
}

func (s *Session) Tracker() *Tracker {
	return s.tracker
}

func (s *Session) Profiles() []domain.Profile {
	return s.registry.List()
}

func (s *Session) Timeout() time.Duration {
	return s.timeout
}

func (s *Session) Validate(ctx context.Context) Result {
	return s.tracker.Validate(ctx, s.timeout)
}

func (s *Session) persist() error {
	return s.repo.Save(domain.State{
		Settings: s.tracker.Committed(),
		Servers:  s.registry.List(),
	})
}

// Apply stores the draft as the active settings. A draft whose last
// verdict is an error is refused.
func (s *Session) Apply() (domain.Settings, error) {
	if v := s.tracker.Verdict(); s.tracker.State() == StateInvalid {
		return domain.Settings{}, fmt.Errorf("%w: %s", ErrInvalidDraft, v.Message())
	}

	draft := s.tracker.Draft()
	if err := s.repo.Save(domain.State{Settings: draft, Servers: s.registry.List()}); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return s.tracker.Commit(), nil
}

// AddProfile appends the draft to the profile list, saves, and resets the
// draft to the committed settings.
func (s *Session) AddProfile() (domain.Profile, error) {
	profile, err := s.draftProfile()
	if err != nil {
		return domain.Profile{}, err
	}

	previous := s.registry.List()
	s.registry.Add(profile)
	if err := s.persist(); err != nil {
		s.registry.Replace(previous)
		return domain.Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	s.tracker.Reset()
	return profile, nil
}

// draftProfile checks the draft on its own, without relying on a
// validation having finished.
func (s *Session) draftProfile() (domain.Profile, error) {
	draft := s.tracker.Draft()
	if strings.TrimSpace(draft.Host) == "" || strings.TrimSpace(draft.Token) == "" {
		return domain.Profile{}, ErrIncompleteProfile
	}
	if !validation.IsValidURL(draft.Host) {
		return domain.Profile{}, fmt.Errorf("%w: %s", ErrInvalidDraft, domain.VerdictInvalidURL.Message())
	}
	return draft.ToProfile(), nil
}

// ReplaceSelected drops the profile at row index and appends the draft in
// its place, saving once. On any failure the stored list is unchanged.
func (s *Session) ReplaceSelected(index int) (domain.Profile, error) {
	if _, ok := s.registry.FindBySelection(index); !ok {
		return domain.Profile{}, ErrNoProfile
	}
	profile, err := s.draftProfile()
	if err != nil {
		return domain.Profile{}, err
	}

	previous := s.registry.List()
	next := make([]domain.Profile, 0, len(previous))
	next = append(next, previous[:index]...)
	next = append(next, previous[index+1:]...)
	next = append(next, profile)

	s.registry.Replace(next)
	if err := s.persist(); err != nil {
		s.registry.Replace(previous)
		return domain.Profile{}, fmt.Errorf("failed to save profiles: %w", err)
	}

	s.tracker.Reset()
	return profile, nil
}

// DeleteSelected removes the profile shown at row index. An out-of-range
// row is ignored.
func (s *Session) DeleteSelected(index int) (domain.Profile, bool, error) {
	profile, ok := s.registry.FindBySelection(index)
	if !ok {
		return domain.Profile{}, false, nil
	}

	previous := s.registry.List()
	s.registry.Delete(profile)
	if err := s.persist(); err != nil {
		s.registry.Replace(previous)
		return domain.Profile{}, false, fmt.Errorf("failed to save profiles: %w", err)
	}

	s.tracker.Reset()
	return profile, true, nil
}

// EditSelected loads the profile at row index into the draft. The stored
// profile is untouched until the caller deletes and re-adds it.
func (s *Session) EditSelected(index int) (domain.Profile, bool) {
	profile, ok := s.registry.FindBySelection(index)
	if !ok {
		return domain.Profile{}, false
	}
	s.tracker.SetDraft(profile.ToSettings())
	return profile, true
}

// Reload discards in-memory state and reads the repository again.
func (s *Session) Reload() error {
	state, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	s.registry.Replace(state.Servers)
	s.tracker.ResetTo(&state.Settings)
	return nil
}
