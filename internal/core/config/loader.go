package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Component == "" {
		cfg.Component = "sentinel"
	}
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = 3
	}
	if len(cfg.Retry.Delays) == 0 {
		cfg.Retry.Delays = []Duration{
			Duration(1 * time.Second),
			Duration(2 * time.Second),
			Duration(4 * time.Second),
		}
	}
	if cfg.Probe.Kind == "" {
		cfg.Probe.Kind = "http"
	}
	if cfg.Probe.Interval == 0 {
		cfg.Probe.Interval = Duration(30 * time.Second)
	}
	if cfg.Probe.Timeout == 0 {
		cfg.Probe.Timeout = Duration(5 * time.Second)
	}
	if cfg.Probe.Debounce == 0 {
		cfg.Probe.Debounce = Duration(10 * time.Second)
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "reports"
	}
}
