package config

import (
	"fmt"
	"time"

	"github.com/vietddude/sentinel/internal/connectivity"
	redisclient "github.com/vietddude/sentinel/internal/infra/redis"
	"github.com/vietddude/sentinel/internal/infra/storage/postgres"
	"github.com/vietddude/sentinel/internal/retry"
)

// Duration is a yaml-friendly wrapper accepting "500ms", "10s" etc.
type Duration time.Duration

// UnmarshalYAML parses Go duration strings.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server    ServerConfig       `yaml:"server"`
	Component string             `yaml:"component"` // label stamped on exported reports
	Logging   LoggingConfig      `yaml:"logging"`
	Retry     RetryConfig        `yaml:"retry"`
	Probe     ProbeConfig        `yaml:"probe"`
	Redis     redisclient.Config `yaml:"redis"`
	Database  postgres.Config    `yaml:"database"`
	Export    ExportConfig       `yaml:"export"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// RetryConfig holds orchestrator settings.
type RetryConfig struct {
	MaxRetries int        `yaml:"max_retries"`
	Delays     []Duration `yaml:"delays"`
}

// ProbeConfig holds connectivity probe settings.
type ProbeConfig struct {
	Endpoint string   `yaml:"endpoint"`
	Kind     string   `yaml:"kind"`    // http, grpc
	Service  string   `yaml:"service"` // grpc health service name
	Interval Duration `yaml:"interval"`
	Timeout  Duration `yaml:"timeout"`
	Debounce Duration `yaml:"debounce"`
}

// ExportConfig holds report export settings.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// RetrySettings converts to the orchestrator's config type.
func (c RetryConfig) RetrySettings() retry.Config {
	delays := make([]time.Duration, len(c.Delays))
	for i, d := range c.Delays {
		delays[i] = d.Std()
	}
	return retry.Config{MaxRetries: c.MaxRetries, Delays: delays}
}

// MonitorSettings converts to the monitor's config type.
func (c ProbeConfig) MonitorSettings() connectivity.Config {
	return connectivity.Config{
		Interval: c.Interval.Std(),
		Timeout:  c.Timeout.Std(),
		Debounce: c.Debounce.Std(),
	}
}
