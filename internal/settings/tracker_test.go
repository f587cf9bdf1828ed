package settings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/johanforsgren/glprofiles/internal/domain"
)

type mockVerifier struct {
	mu      sync.Mutex
	calls   int
	verdict domain.Verdict
	started chan struct{}
	release chan struct{}
	panics  bool
}

func (m *mockVerifier) Verify(ctx context.Context, host, token string, timeout time.Duration) domain.Verdict {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.panics {
		panic("verifier crashed")
	}
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
	return m.verdict
}

func (m *mockVerifier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type fixedCounter int

func (c fixedCounter) Len() int { return int(c) }

func newTestTracker(verifier CredentialVerifier, profiles int) *Tracker {
	return NewTracker(domain.DefaultSettings(), verifier, fixedCounter(profiles))
}

func TestIsModified_FalseAfterCommit(t *testing.T) {
	tracker := newTestTracker(&mockVerifier{}, 0)
	tracker.SetHost("https://gitlab.example.com")
	tracker.SetToken("abc")

	if !tracker.IsModified() {
		t.Fatal("IsModified() = false after edits, want true")
	}

	committed := tracker.Commit()

	if tracker.IsModified() {
		t.Error("IsModified() = true after Commit, want false")
	}
	if diff := cmp.Diff(tracker.Draft(), committed); diff != "" {
		t.Errorf("Draft differs from committed (-draft +committed):\n%s", diff)
	}
	if tracker.State() != StateClean {
		t.Errorf("State() = %v, want %v", tracker.State(), StateClean)
	}
}

func TestIsModified_FalseAfterReset(t *testing.T) {
	tracker := newTestTracker(&mockVerifier{}, 0)
	tracker.SetHost("https://gitlab.example.com")
	tracker.Reset()

	if tracker.IsModified() {
		t.Error("IsModified() = true after Reset, want false")
	}
	if got := tracker.Draft(); got != domain.DefaultSettings() {
		t.Errorf("Draft() = %+v, want defaults", got)
	}
}

func TestIsModified_DefaultFlagCounts(t *testing.T) {
	tracker := newTestTracker(&mockVerifier{}, 0)
	tracker.SetDefaultRemoveBranch(false)

	if !tracker.IsModified() {
		t.Error("IsModified() = false after flag change, want true")
	}

	tracker.SetDefaultRemoveBranch(true)
	if tracker.IsModified() {
		t.Error("IsModified() = true after flag restored, want false")
	}
	if tracker.State() != StateDirty {
		t.Errorf("State() = %v, want %v", tracker.State(), StateDirty)
	}
}

func TestIsModified_IndependentOfValidation(t *testing.T) {
	verifier := &mockVerifier{verdict: domain.VerdictInvalidToken}
	tracker := newTestTracker(verifier, 0)
	tracker.SetHost("https://gitlab.example.com")
	tracker.SetToken("abc")
	tracker.Validate(context.Background(), time.Second)

	if tracker.State() != StateInvalid {
		t.Fatalf("State() = %v, want %v", tracker.State(), StateInvalid)
	}
	if !tracker.IsModified() {
		t.Error("IsModified() = false for an invalid but edited draft")
	}

	tracker.Commit()
	if tracker.IsModified() {
		t.Error("IsModified() = true after committing an invalid draft")
	}
}

func TestValidate_SkippedWithoutNetwork(t *testing.T) {
	verifier := &mockVerifier{verdict: domain.VerdictValid}
	tracker := newTestTracker(verifier, 1)
	tracker.SetHost("")
	tracker.SetToken("")

	res := tracker.Validate(context.Background(), time.Second)

	if res.Verdict != domain.VerdictSkipped || res.State != StateValid {
		t.Errorf("Validate() = %+v, want skipped/valid", res)
	}
	if verifier.callCount() != 0 {
		t.Errorf("Verify called %d times, want 0", verifier.callCount())
	}
}

func TestValidate_BlankWithoutProfilesIsUnjudged(t *testing.T) {
	verifier := &mockVerifier{verdict: domain.VerdictValid}
	tracker := newTestTracker(verifier, 0)
	tracker.SetHost("")

	res := tracker.Validate(context.Background(), time.Second)

	if res.Verdict != domain.VerdictNone || res.State != StateDirty {
		t.Errorf("Validate() = %+v, want no verdict/dirty", res)
	}
	if verifier.callCount() != 0 {
		t.Errorf("Verify called %d times, want 0", verifier.callCount())
	}
}

func TestValidate_OneFieldBlankIsUnjudged(t *testing.T) {
	tests := []struct {
		name  string
		host  string
		token string
	}{
		{name: "host only", host: "https://gitlab.example.com"},
		{name: "token only", token: "abc"},
		{name: "malformed host only", host: "not a url"},
		{name: "whitespace token", host: "https://gitlab.example.com", token: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &mockVerifier{verdict: domain.VerdictValid}
			tracker := newTestTracker(verifier, 1)
			tracker.SetHost(tt.host)
			tracker.SetToken(tt.token)

			res := tracker.Validate(context.Background(), time.Second)

			if res.Verdict != domain.VerdictNone || res.State != StateDirty {
				t.Errorf("Validate() = %+v, want no verdict/dirty", res)
			}
			if verifier.callCount() != 0 {
				t.Errorf("Verify called %d times, want 0", verifier.callCount())
			}
		})
	}
}

func TestValidate_InvalidURLWithoutNetwork(t *testing.T) {
	verifier := &mockVerifier{verdict: domain.VerdictValid}
	tracker := newTestTracker(verifier, 0)
	tracker.SetHost("gitlab.example.com")
	tracker.SetToken("abc")

	res := tracker.Validate(context.Background(), time.Second)

	if res.Verdict != domain.VerdictInvalidURL || res.State != StateInvalid {
		t.Errorf("Validate() = %+v, want invalid_url/invalid", res)
	}
	if verifier.callCount() != 0 {
		t.Errorf("Verify called %d times, want 0", verifier.callCount())
	}
	if tracker.AllowsAdd() {
		t.Error("AllowsAdd() = true for a malformed URL")
	}
}

func TestValidate_VerdictToState(t *testing.T) {
	tests := []struct {
		verdict   domain.Verdict
		wantState State
	}{
		{domain.VerdictValid, StateValid},
		{domain.VerdictInvalidToken, StateInvalid},
		{domain.VerdictUnreachable, StateInvalid},
		{domain.VerdictTimeout, StateInvalid},
		{domain.VerdictGeneralError, StateInvalid},
	}

	for _, tt := range tests {
		t.Run(string(tt.verdict), func(t *testing.T) {
			verifier := &mockVerifier{verdict: tt.verdict}
			tracker := newTestTracker(verifier, 0)
			tracker.SetHost("https://gitlab.example.com")
			tracker.SetToken("abc")

			res := tracker.Validate(context.Background(), time.Second)

			if res.Verdict != tt.verdict || res.State != tt.wantState || res.Stale {
				t.Errorf("Validate() = %+v, want %s/%s", res, tt.verdict, tt.wantState)
			}
			if tracker.Verdict() != tt.verdict {
				t.Errorf("Verdict() = %v, want %v", tracker.Verdict(), tt.verdict)
			}
			if !tracker.AllowsAdd() {
				t.Error("AllowsAdd() = false, want true")
			}
		})
	}
}

func TestValidate_CleanDraftHasNoVerdict(t *testing.T) {
	verifier := &mockVerifier{verdict: domain.VerdictValid}
	committed := domain.Settings{Host: "https://gitlab.example.com", Token: "abc", DefaultRemoveBranch: true}
	tracker := NewTracker(committed, verifier, fixedCounter(0))

	res := tracker.Validate(context.Background(), time.Second)

	if res.Verdict != domain.VerdictNone || res.State != StateClean {
		t.Errorf("Validate() = %+v, want no verdict/clean", res)
	}
	if verifier.callCount() != 0 {
		t.Errorf("Verify called %d times, want 0", verifier.callCount())
	}
}

func TestValidate_CachedUntilNextEdit(t *testing.T) {
	verifier := &mockVerifier{verdict: domain.VerdictValid}
	tracker := newTestTracker(verifier, 0)
	tracker.SetHost("https://gitlab.example.com")
	tracker.SetToken("abc")

	tracker.Validate(context.Background(), time.Second)
	tracker.Validate(context.Background(), time.Second)
	if verifier.callCount() != 1 {
		t.Errorf("Verify called %d times, want 1", verifier.callCount())
	}

	tracker.SetToken("abcd")
	tracker.Validate(context.Background(), time.Second)
	if verifier.callCount() != 2 {
		t.Errorf("Verify called %d times after edit, want 2", verifier.callCount())
	}
}

func TestValidate_LaterEditWins(t *testing.T) {
	verifier := &mockVerifier{
		verdict: domain.VerdictInvalidToken,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	tracker := newTestTracker(verifier, 0)
	tracker.SetHost("https://gitlab.example.com")
	tracker.SetToken("abc")

	results := make(chan Result, 1)
	go func() {
		results <- tracker.Validate(context.Background(), time.Second)
	}()

	<-verifier.started
	if tracker.State() != StateValidating {
		t.Errorf("State() = %v during verification, want %v", tracker.State(), StateValidating)
	}

	tracker.SetToken("abcdef")
	close(verifier.release)
	res := <-results

	if !res.Stale {
		t.Errorf("Validate() = %+v, want stale", res)
	}
	if tracker.State() != StateDirty {
		t.Errorf("State() = %v, want %v", tracker.State(), StateDirty)
	}
	if tracker.Verdict() != domain.VerdictNone {
		t.Errorf("Verdict() = %v, stale verdict was applied", tracker.Verdict())
	}
}

func TestValidate_CommitDuringValidation(t *testing.T) {
	verifier := &mockVerifier{
		verdict: domain.VerdictTimeout,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	tracker := newTestTracker(verifier, 0)
	tracker.SetHost("https://gitlab.example.com")
	tracker.SetToken("abc")

	results := make(chan Result, 1)
	go func() {
		results <- tracker.Validate(context.Background(), time.Second)
	}()

	<-verifier.started
	tracker.Commit()
	close(verifier.release)
	res := <-results

	if !res.Stale {
		t.Errorf("Validate() = %+v, want stale", res)
	}
	if tracker.State() != StateClean {
		t.Errorf("State() = %v, want %v", tracker.State(), StateClean)
	}
}

func TestValidate_PanickingVerifier(t *testing.T) {
	tracker := newTestTracker(&mockVerifier{panics: true}, 0)
	tracker.SetHost("https://gitlab.example.com")
	tracker.SetToken("abc")

	res := tracker.Validate(context.Background(), time.Second)

	if res.Verdict != domain.VerdictGeneralError || res.State != StateInvalid {
		t.Errorf("Validate() = %+v, want general_error/invalid", res)
	}
}

func TestValidate_NilVerifier(t *testing.T) {
	tracker := NewTracker(domain.DefaultSettings(), nil, nil)
	tracker.SetHost("https://gitlab.example.com")
	tracker.SetToken("abc")

	res := tracker.Validate(context.Background(), time.Second)
	if res.Verdict != domain.VerdictGeneralError {
		t.Errorf("Validate() = %+v, want general_error", res)
	}
}

func TestOnTransition(t *testing.T) {
	tracker := newTestTracker(&mockVerifier{verdict: domain.VerdictValid}, 0)

	var got []Transition
	tracker.OnTransition(func(tr Transition) {
		got = append(got, tr)
	})

	tracker.SetHost("https://gitlab.example.com")
	tracker.SetToken("abc")
	tracker.Validate(context.Background(), time.Second)
	tracker.Commit()

	want := []Transition{
		{From: StateClean, To: StateDirty},
		{From: StateDirty, To: StateValidating},
		{From: StateValidating, To: StateValid, Verdict: domain.VerdictValid},
		{From: StateValid, To: StateClean},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestResetTo(t *testing.T) {
	tracker := newTestTracker(&mockVerifier{}, 0)
	stored := domain.Settings{Host: "https://gitlab.example.com", Token: "abc"}

	tracker.ResetTo(&stored)
	if tracker.Draft() != stored || tracker.Committed() != stored {
		t.Errorf("ResetTo() draft = %+v committed = %+v, want %+v", tracker.Draft(), tracker.Committed(), stored)
	}

	tracker.SetHost("https://other.example.com")
	tracker.ResetTo(nil)
	if tracker.Draft() != domain.DefaultSettings() {
		t.Errorf("ResetTo(nil) draft = %+v, want defaults", tracker.Draft())
	}
	if tracker.IsModified() {
		t.Error("IsModified() = true after ResetTo")
	}
}

func TestHelpURL(t *testing.T) {
	tracker := newTestTracker(&mockVerifier{}, 0)
	tracker.SetHost("https://gitlab.example.com/")

	want := "https://gitlab.example.com/profile/personal_access_tokens"
	if got := tracker.HelpURL(); got != want {
		t.Errorf("HelpURL() = %q, want %q", got, want)
	}
}
