// Package config handles reading and writing .studio/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .studio/config.yaml.
type Config struct {
	Version int           `yaml:"version"`
	Backend BackendConfig `yaml:"backend"`
	Listing ListingConfig `yaml:"listing"`
	Poll    PollConfig    `yaml:"poll"`
}

// BackendConfig locates the Podcast Studio backend.
type BackendConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // per-request HTTP timeout
}

// ListingConfig controls list screens.
type ListingConfig struct {
	PerPage int `yaml:"per_page"`
}

// PollConfig tunes the status-poll loops.
type PollConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	ErrorBudget int `yaml:"error_budget"` // consecutive failures before giving up
}

const configDir = ".studio"
const configFile = "config.yaml"

// ReadConfig reads .studio/config.yaml from the given directory, usually the
// user's home. Returns an error if the file is not found or YAML is
// malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// WriteConfig writes cfg to .studio/config.yaml in the given directory.
// Creates the .studio/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Backend: BackendConfig{
			URL:            "http://localhost:8000",
			TimeoutSeconds: 300,
		},
		Listing: ListingConfig{
			PerPage: 10,
		},
		Poll: PollConfig{
			MaxAttempts: 180,
			ErrorBudget: 5,
		},
	}
}

// Load reads the config from dir, falling back to DefaultConfig when the
// file does not exist. A present but malformed file is still an error.
func Load(dir string) (*Config, error) {
	cfg, err := ReadConfig(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}
