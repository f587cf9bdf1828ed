package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/johanforsgren/glprofiles/internal/domain"
	"github.com/johanforsgren/glprofiles/internal/logger"
)

const (
	configDir     = ".glprofiles"
	stateFileName = "state.json"
)

type LocalRepository struct {
	statePath string
	mu        sync.Mutex
}

// DefaultPath is ~/.glprofiles/state.json.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir, stateFileName), nil
}

// NewLocalRepository stores state as JSON at statePath, or at DefaultPath
// when statePath is empty.
func NewLocalRepository(statePath string) (*LocalRepository, error) {
	if statePath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		statePath = p
	}

	repo := &LocalRepository{statePath: statePath}
	if err := repo.ensureConfigDir(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *LocalRepository) Path() string {
	return r.statePath
}

func (r *LocalRepository) ensureConfigDir() error {
	dir := filepath.Dir(r.statePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// Load returns the stored state. A missing file yields the default state.
func (r *LocalRepository) Load() (domain.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger.LogFileOpen(r.statePath)
	data, err := os.ReadFile(r.statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Log("No state file at %s, using defaults", r.statePath)
			return defaultState(), nil
		}
		logger.LogError("LOAD", r.statePath, err)
		return domain.State{}, fmt.Errorf("failed to read state: %w", err)
	}

	file := stateFile{
		Settings: domain.DefaultSettings(),
	}
	if err := json.Unmarshal(data, &file); err != nil {
		logger.LogError("UNMARSHAL", r.statePath, err)
		return domain.State{}, fmt.Errorf("failed to parse state %s: %w", r.statePath, err)
	}
	if file.Version > currentVersion {
		err := fmt.Errorf("state version %d is newer than supported version %d", file.Version, currentVersion)
		logger.LogError("LOAD", r.statePath, err)
		return domain.State{}, err
	}
	if file.Servers == nil {
		file.Servers = []domain.Profile{}
	}

	logger.Log("State loaded from %s: %d profiles", r.statePath, len(file.Servers))
	return domain.State{Settings: file.Settings, Servers: file.Servers}, nil
}

func (r *LocalRepository) Save(state domain.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	servers := state.Servers
	if servers == nil {
		servers = []domain.Profile{}
	}
	file := stateFile{
		Version:  currentVersion,
		Settings: state.Settings,
		Servers:  servers,
	}

	data, err := json.MarshalIndent(&file, "", "  ")
	if err != nil {
		logger.LogError("MARSHAL", r.statePath, err)
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	logger.LogFileWrite(r.statePath)
	if err := atomicWrite(r.statePath, data, 0600); err != nil {
		logger.LogError("SAVE", r.statePath, err)
		return fmt.Errorf("failed to write state: %w", err)
	}

	logger.Log("State saved to %s: %d profiles", r.statePath, len(servers))
	return nil
}
