package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/johanforsgren/glprofiles/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".glprofiles"
	configFileName = "glprofiles.yaml"

	DefaultValidationTimeout = 500 * time.Millisecond
	DefaultRequestTimeout    = 30 * time.Second
)

// Config holds application configuration. Values come from the YAML file,
// then environment variables, then command line flags.
type Config struct {
	StateFile         string              `yaml:"state_file"`
	LogFile           string              `yaml:"log_file"`
	LogLevel          string              `yaml:"log_level"`
	Provider          domain.ProviderType `yaml:"provider"`
	ValidationTimeout time.Duration       `yaml:"validation_timeout"`
	RequestTimeout    time.Duration       `yaml:"request_timeout"`
}

func Default() *Config {
	return &Config{
		LogLevel:          "info",
		Provider:          domain.ProviderGitLab,
		ValidationTimeout: DefaultValidationTimeout,
		RequestTimeout:    DefaultRequestTimeout,
	}
}

// DefaultPath is ~/.glprofiles/glprofiles.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, configDirName, configFileName)
}

// DefaultLogPath is ~/.glprofiles/glprofiles.log.
func DefaultLogPath() string {
	return filepath.Join(filepath.Dir(DefaultPath()), "glprofiles.log")
}

// Load reads path (DefaultPath when empty) and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = getEnvOrDefault("GLPROFILES_CONFIG", DefaultPath())
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.StateFile = getEnvOrDefault("GLPROFILES_STATE_FILE", c.StateFile)
	c.LogFile = getEnvOrDefault("GLPROFILES_LOG_FILE", c.LogFile)
	c.LogLevel = getEnvOrDefault("GLPROFILES_LOG_LEVEL", c.LogLevel)
	c.Provider = domain.ProviderType(getEnvOrDefault("GLPROFILES_PROVIDER", string(c.Provider)))

	if v := os.Getenv("GLPROFILES_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GLPROFILES_TIMEOUT %q: %w", v, err)
		}
		c.ValidationTimeout = d
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case domain.ProviderGitLab, domain.ProviderGitHub:
	default:
		return fmt.Errorf("unsupported provider %q (want gitlab or github)", c.Provider)
	}
	if c.ValidationTimeout <= 0 {
		return fmt.Errorf("validation timeout must be positive, got %v", c.ValidationTimeout)
	}
	if c.RequestTimeout < c.ValidationTimeout {
		c.RequestTimeout = c.ValidationTimeout
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
