package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/johanforsgren/glprofiles/internal/domain"
)

func setTestHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	return tmpDir
}

func TestNewLocalRepository_DefaultPath(t *testing.T) {
	tmpDir := setTestHome(t)

	repo, err := NewLocalRepository("")
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	expectedPath := filepath.Join(tmpDir, ".glprofiles", "state.json")
	if repo.Path() != expectedPath {
		t.Errorf("Expected state path %s, got %s", expectedPath, repo.Path())
	}
	if _, err := os.Stat(filepath.Dir(expectedPath)); err != nil {
		t.Errorf("Expected config directory to exist: %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	repo, err := NewLocalRepository(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	state, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := domain.State{Settings: domain.DefaultSettings(), Servers: []domain.Profile{}}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	repo, err := NewLocalRepository(filepath.Join(t.TempDir(), "nested", "state.json"))
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	state := domain.State{
		Settings: domain.Settings{Host: "https://gitlab.example.com", Token: "glpat-1", DefaultRemoveBranch: false},
		Servers: []domain.Profile{
			{Host: "https://gitlab.example.com", Token: "glpat-1", DefaultRemoveBranch: true},
			{Host: "https://gitlab.example.com", Token: "glpat-1", DefaultRemoveBranch: true},
			{Host: "https://gitlab.other.org", Token: "glpat-2"},
		},
	}

	if err := repo.Save(state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(state, loaded); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	info, err := os.Stat(repo.Path())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected file mode 0600, got %o", perm)
	}

	entries, err := os.ReadDir(filepath.Dir(repo.Path()))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the state file, found %d entries", len(entries))
	}
}

func TestSave_NilServersStoredAsEmpty(t *testing.T) {
	repo, err := NewLocalRepository(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	if err := repo.Save(domain.State{Settings: domain.DefaultSettings()}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Servers == nil || len(loaded.Servers) != 0 {
		t.Errorf("Expected empty server list, got %#v", loaded.Servers)
	}
}

func TestLoad_MissingSettingsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"version": 1, "servers": []}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	repo, err := NewLocalRepository(path)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	state, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !state.Settings.DefaultRemoveBranch {
		t.Error("Expected default remove branch flag to default to true")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "corrupt json", content: "{not json"},
		{name: "future version", content: `{"version": 99}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "state.json")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			repo, err := NewLocalRepository(path)
			if err != nil {
				t.Fatalf("Failed to create repository: %v", err)
			}
			if _, err := repo.Load(); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}
