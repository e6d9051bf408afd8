package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Backend.URL = "http://studio.internal:9000"
	cfg.Listing.PerPage = 25

	// Write to disk
	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	// Read back
	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if loaded.Backend.URL != "http://studio.internal:9000" {
		t.Errorf("Backend.URL: got %q, want %q", loaded.Backend.URL, "http://studio.internal:9000")
	}
	if loaded.Listing.PerPage != 25 {
		t.Errorf("Listing.PerPage: got %d, want 25", loaded.Listing.PerPage)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("default Backend.URL: got %q", cfg.Backend.URL)
	}
	if cfg.Poll.MaxAttempts != 180 {
		t.Errorf("default Poll.MaxAttempts: got %d, want 180", cfg.Poll.MaxAttempts)
	}
	if cfg.Poll.ErrorBudget != 5 {
		t.Errorf("default Poll.ErrorBudget: got %d, want 5", cfg.Poll.ErrorBudget)
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed on missing config: %v", err)
	}
	if cfg.Backend.URL != DefaultConfig().Backend.URL {
		t.Errorf("missing config should load defaults, got URL %q", cfg.Backend.URL)
	}
}

func TestLoadRejectsMalformedConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".studio")
	if err := os.MkdirAll(configPath, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configPath, "config.yaml"), []byte("backend: [not a map"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load should fail on malformed YAML")
	}
}

func TestBackwardCompatibility(t *testing.T) {
	// Simulate an older config file without the poll section
	tmpDir := t.TempDir()
	oldConfig := `version: 1
backend:
  url: http://localhost:8000
  timeout_seconds: 300
listing:
  per_page: 10
`
	configPath := filepath.Join(tmpDir, ".studio")
	if err := os.MkdirAll(configPath, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configPath, "config.yaml"), []byte(oldConfig), 0644); err != nil {
		t.Fatalf("failed to write old config: %v", err)
	}

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed on old config: %v", err)
	}
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("Backend.URL: got %q", cfg.Backend.URL)
	}
	if cfg.Poll.MaxAttempts != 0 {
		t.Errorf("missing poll section should decode as zero, got %d", cfg.Poll.MaxAttempts)
	}
}
