package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johanforsgren/glprofiles/internal/provider/common"
)

func TestGetUser_Enterprise(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/user" {
			t.Errorf("Expected path /api/v3/user, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer ghp_test" {
			t.Errorf("Expected bearer token header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "login": "octocat", "name": "The Octocat"}`))
	}))
	defer server.Close()

	provider := NewProvider(server.Client())
	user, err := provider.CurrentUser(context.Background(), server.URL, "ghp_test")
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user.Username != "octocat" || user.ID != "1" {
		t.Errorf("CurrentUser() = %+v", user)
	}
}

func TestGetUser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "bad credentials", status: http.StatusUnauthorized, body: `{"message":"Bad credentials"}`, wantErr: common.ErrUnauthorized},
		{name: "server error", status: http.StatusInternalServerError, body: `{"message":"oops"}`, wantErr: common.ErrUnexpectedResponse},
		{name: "no login", status: http.StatusOK, body: `{"id": 1}`, wantErr: common.ErrUnexpectedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.Client()).GetUser(context.Background(), server.URL, "ghp_test")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("GetUser() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetUser_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(nil).GetUser(context.Background(), url, "ghp_test")
	if !errors.Is(err, common.ErrUnreachable) {
		t.Errorf("GetUser() error = %v, want %v", err, common.ErrUnreachable)
	}
}

func TestIsPublicGitHub(t *testing.T) {
	if !isPublicGitHub("https://github.com") {
		t.Error("expected github.com to be public")
	}
	if isPublicGitHub("https://github.example.com") {
		t.Error("expected enterprise host not to be public")
	}
}
