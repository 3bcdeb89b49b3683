package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout.value() != 15*time.Second {
		t.Errorf("Expected default request timeout 15s, got %v", cfg.Server.RequestTimeout.value())
	}
}

func TestLoadConfig_FromYAML(t *testing.T) {
	raw := `
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 5s
  write_timeout: 5s
  request_timeout: 2s
rate_limit:
  max_requests: 10
  window: 30s
auth:
  tokens:
    secret-token: alice
development: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout.value() != 5*time.Second {
		t.Errorf("Expected read timeout 5s, got %v", cfg.Server.ReadTimeout.value())
	}
	if cfg.RateLimit.Window.value() != 30*time.Second {
		t.Errorf("Expected window 30s, got %v", cfg.RateLimit.Window.value())
	}
	if cfg.Auth.Tokens["secret-token"] != "alice" {
		t.Errorf("Expected token mapping, got %v", cfg.Auth.Tokens)
	}
	if !cfg.Development {
		t.Error("Expected development mode from file")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("GECKO_SERVER_PORT", "7070")
	t.Setenv("GECKO_DB_PATH", "/tmp/override.db")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Expected env override port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Expected env override db path, got %q", cfg.Database.Path)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	raw := `
server:
  port: 99999
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(path); err == nil {
		t.Error("Expected validation error for out-of-range port")
	}
}

func TestLoadConfig_BadDuration(t *testing.T) {
	raw := `
server:
  read_timeout: soon
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(path); err == nil {
		t.Error("Expected parse error for invalid duration")
	}
}
