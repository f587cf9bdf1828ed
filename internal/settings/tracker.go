package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/johanforsgren/glprofiles/internal/domain"
	"github.com/johanforsgren/glprofiles/internal/logger"
	"github.com/johanforsgren/glprofiles/internal/validation"
)

var log = logger.ForComponent("settings")

type State int

const (
	StateClean State = iota
	StateDirty
	StateValidating
	StateValid
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateValidating:
		return "validating"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type CredentialVerifier interface {
	Verify(ctx context.Context, host, token string, timeout time.Duration) domain.Verdict
}

// ProfileCounter is the part of the registry the tracker needs: whether
// any stored profile exists.
type ProfileCounter interface {
	Len() int
}

// Result is the outcome of one Validate call. A Stale result was
// superseded by a later edit or commit and was not applied.
type Result struct {
	Verdict domain.Verdict
	State   State
	Stale   bool
}

type Transition struct {
	From    State
	To      State
	Verdict domain.Verdict
}

// Tracker holds the editable draft and the last committed settings.
// Modification tracking (IsModified) and validity tracking (State) are
// independent. Every edit or commit bumps a generation counter; a
// validation that finishes after the counter moved is discarded.
type Tracker struct {
	mu         sync.Mutex
	draft      domain.Settings
	committed  domain.Settings
	state      State
	verdict    domain.Verdict
	generation uint64
	verifier   CredentialVerifier
	profiles   ProfileCounter
	listeners  []func(Transition)
}

func NewTracker(committed domain.Settings, verifier CredentialVerifier, profiles ProfileCounter) *Tracker {
	return &Tracker{
		draft:     committed,
		committed: committed,
		state:     StateClean,
		verifier:  verifier,
		profiles:  profiles,
	}
}

// OnTransition registers fn to be called after every state change. fn
// runs outside the tracker lock and may call back into the tracker.
func (t *Tracker) OnTransition(fn func(Transition)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// setState must be called with t.mu held; the returned function notifies
// listeners and must be called after unlocking.
func (t *Tracker) setState(to State, verdict domain.Verdict) func() {
	from, fromVerdict := t.state, t.verdict
	t.state = to
	t.verdict = verdict
	if from == to && fromVerdict == verdict {
		return func() {}
	}

	tr := Transition{From: from, To: to, Verdict: verdict}
	listeners := make([]func(Transition), len(t.listeners))
	copy(listeners, t.listeners)
	return func() {
		for _, fn := range listeners {
			fn(tr)
		}
	}
}

func (t *Tracker) edit(apply func(d *domain.Settings)) {
	t.mu.Lock()
	apply(&t.draft)
	t.generation++
	notify := t.setState(StateDirty, domain.VerdictNone)
	t.mu.Unlock()
	notify()
}

func (t *Tracker) SetHost(host string) {
	t.edit(func(d *domain.Settings) { d.Host = host })
}

func (t *Tracker) SetToken(token string) {
	t.edit(func(d *domain.Settings) { d.Token = token })
}

func (t *Tracker) SetDefaultRemoveBranch(value bool) {
	t.edit(func(d *domain.Settings) { d.DefaultRemoveBranch = value })
}

// SetDraft replaces all draft fields at once, as when a stored profile is
// loaded for editing.
func (t *Tracker) SetDraft(s domain.Settings) {
	t.edit(func(d *domain.Settings) { *d = s })
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Validate judges the current draft. Only the credential check may block,
// and never for longer than timeout.
//
// A blank draft with stored profiles present is Skipped. A draft with only
// one of host or token filled in is left unjudged. A Clean draft has no
// verdict, and a draft already judged since its last edit returns the
// cached verdict.
func (t *Tracker) Validate(ctx context.Context, timeout time.Duration) Result {
	t.mu.Lock()
	draft := t.draft
	gen := t.generation

	if isBlank(draft.Host) && isBlank(draft.Token) && t.profiles != nil && t.profiles.Len() > 0 {
		notify := t.setState(StateValid, domain.VerdictSkipped)
		t.mu.Unlock()
		notify()
		return Result{Verdict: domain.VerdictSkipped, State: StateValid}
	}

	switch t.state {
	case StateClean, StateValid, StateInvalid:
		res := Result{Verdict: t.verdict, State: t.state}
		t.mu.Unlock()
		return res
	}

	if isBlank(draft.Host) || isBlank(draft.Token) {
		res := Result{Verdict: domain.VerdictNone, State: t.state}
		t.mu.Unlock()
		return res
	}

	if !validation.IsValidURL(draft.Host) {
		notify := t.setState(StateInvalid, domain.VerdictInvalidURL)
		t.mu.Unlock()
		notify()
		return Result{Verdict: domain.VerdictInvalidURL, State: StateInvalid}
	}

	notify := t.setState(StateValidating, domain.VerdictNone)
	t.mu.Unlock()
	notify()

	verdict := t.verify(ctx, draft, timeout)

	t.mu.Lock()
	if t.generation != gen {
		res := Result{Verdict: verdict, State: t.state, Stale: true}
		t.mu.Unlock()
		log.Log("Discarding stale verdict %s for %s", verdict, draft.Host)
		return res
	}

	to := StateInvalid
	if !verdict.IsError() {
		to = StateValid
	}
	notify = t.setState(to, verdict)
	t.mu.Unlock()
	notify()

	return Result{Verdict: verdict, State: to}
}

func (t *Tracker) verify(ctx context.Context, draft domain.Settings, timeout time.Duration) (verdict domain.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			log.LogError("VALIDATE_PANIC", draft.Host, fmt.Errorf("%v", r))
			verdict = domain.VerdictGeneralError
		}
	}()

	if t.verifier == nil {
		return domain.VerdictGeneralError
	}
	return t.verifier.Verify(ctx, draft.Host, draft.Token, timeout)
}

// Commit accepts the draft as the new baseline, whatever its state.
func (t *Tracker) Commit() domain.Settings {
	t.mu.Lock()
	t.committed = t.draft
	t.generation++
	committed := t.committed
	notify := t.setState(StateClean, domain.VerdictNone)
	t.mu.Unlock()
	notify()

	log.Log("Committed settings for %s", committed.Host)
	return committed
}

// Reset overwrites the draft with the committed settings.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.draft = t.committed
	t.generation++
	notify := t.setState(StateClean, domain.VerdictNone)
	t.mu.Unlock()
	notify()
}

// ResetTo installs committed as the new baseline and resets the draft to
// it. A nil committed means DefaultSettings.
func (t *Tracker) ResetTo(committed *domain.Settings) {
	t.mu.Lock()
	if committed == nil {
		t.committed = domain.DefaultSettings()
	} else {
		t.committed = *committed
	}
	t.draft = t.committed
	t.generation++
	notify := t.setState(StateClean, domain.VerdictNone)
	t.mu.Unlock()
	notify()
}

// IsModified reports whether the draft differs from the committed
// settings, default flag included. It ignores validation state.
func (t *Tracker) IsModified() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft != t.committed
}

func (t *Tracker) Draft() domain.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft
}

func (t *Tracker) Committed() domain.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committed
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tracker) Verdict() domain.Verdict {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.verdict
}

// AllowsAdd reports whether the draft may be offered as a new profile and
// whether the token help page makes sense. Only a malformed URL blocks.
func (t *Tracker) AllowsAdd() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.verdict != domain.VerdictInvalidURL
}

func (t *Tracker) HelpURL() string {
	return validation.HelpURL(t.Draft().Host)
}
