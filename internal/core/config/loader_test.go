package config

import (
	"os"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad_EnvSubstitution(t *testing.T) {
	os.Setenv("TEST_REDIS_URL", "redis://localhost:6380/1")
	defer os.Unsetenv("TEST_REDIS_URL")

	path := writeTempConfig(t, `
redis:
  url: ${TEST_REDIS_URL}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Redis.URL != "redis://localhost:6380/1" {
		t.Errorf("Expected URL redis://localhost:6380/1, got %s", cfg.Redis.URL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Retry.MaxRetries != 3 {
		t.Errorf("Expected default max retries 3, got %d", cfg.Retry.MaxRetries)
	}
	wantDelays := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	if len(cfg.Retry.Delays) != len(wantDelays) {
		t.Fatalf("Expected %d delays, got %d", len(wantDelays), len(cfg.Retry.Delays))
	}
	for i, d := range wantDelays {
		if cfg.Retry.Delays[i].Std() != d {
			t.Errorf("Delay %d = %s, want %s", i, cfg.Retry.Delays[i].Std(), d)
		}
	}
	if cfg.Probe.Kind != "http" {
		t.Errorf("Expected default probe kind http, got %s", cfg.Probe.Kind)
	}
	if cfg.Component != "sentinel" {
		t.Errorf("Expected default component sentinel, got %s", cfg.Component)
	}
}

func TestLoad_Explicit(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9090
component: forecasting-ui
retry:
  max_retries: 5
  delays: [500ms, 1s]
probe:
  endpoint: http://compute:8000/healthz
  interval: 10s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Retry.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.Delays[0].Std() != 500*time.Millisecond {
		t.Errorf("Delays[0] = %s, want 500ms", cfg.Retry.Delays[0].Std())
	}
	if cfg.Probe.Endpoint != "http://compute:8000/healthz" {
		t.Errorf("Probe endpoint = %s", cfg.Probe.Endpoint)
	}
	if cfg.Probe.Interval.Std() != 10*time.Second {
		t.Errorf("Probe interval = %s, want 10s", cfg.Probe.Interval.Std())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
