package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfig = `
app:
  name: opsdesk
  environment: test
api:
  base_url: "http://localhost:8080"
  token: "file-token"
  timeout_seconds: 5
refresh:
  front_desk_seconds: 15
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("unexpected base url: %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout() != 5*time.Second {
		t.Errorf("unexpected timeout: %s", cfg.API.Timeout())
	}
	if cfg.Refresh.FrontDeskInterval() != 15*time.Second {
		t.Errorf("unexpected front desk interval: %s", cfg.Refresh.FrontDeskInterval())
	}
	// unset values fall back to the polling defaults
	if cfg.Refresh.HousekeepingInterval() != 60*time.Second {
		t.Errorf("unexpected housekeeping default: %s", cfg.Refresh.HousekeepingInterval())
	}
}

func TestTokenEnvOverride(t *testing.T) {
	t.Setenv("OPSDESK_API_TOKEN", "env-token")
	cfg, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.Token != "env-token" {
		t.Errorf("expected env token to win, got %s", cfg.API.Token)
	}
}

func TestLoadRequiresBaseURL(t *testing.T) {
	if _, err := Load(writeConfig(t, "app:\n  name: opsdesk\n")); err == nil {
		t.Error("expected error when api.base_url is missing")
	}
}
