package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wakewell/servicekit/errors"
)

// Global is the process-level configuration loaded at startup. It
// supplies the default service configuration and per-service overrides.
type Global struct {
	Environment Environment `yaml:"environment"`
	LogLevel    string      `yaml:"log_level"`
	LogFormat   string      `yaml:"log_format"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`

	Events struct {
		NATSEnabled bool   `yaml:"nats_enabled"`
		NATSURL     string `yaml:"nats_url"`
	} `yaml:"events"`

	Services map[string]Override `yaml:"services"`
}

// Defaults returns the baseline configuration shared by all services
func (g *Global) Defaults() Service {
	return Service{
		Environment: g.Environment,
		Enabled:     true,
	}
}

// Validate checks the global configuration for structural problems
func (g *Global) Validate() error {
	if g.Environment == "" {
		return errors.WrapInvalid(errors.ErrMissingConfiguration,
			"Global", "Validate", "environment validation")
	}
	if !g.Environment.Valid() {
		return errors.WrapInvalid(
			fmt.Errorf("%w: unknown environment %q", errors.ErrInvalidConfiguration, g.Environment),
			"Global", "Validate", "environment validation")
	}
	if g.Metrics.Enabled && (g.Metrics.Port < 1 || g.Metrics.Port > 65535) {
		return errors.WrapInvalid(
			fmt.Errorf("%w: metrics port %d outside valid range", errors.ErrInvalidConfiguration, g.Metrics.Port),
			"Global", "Validate", "metrics port validation")
	}
	if g.Events.NATSEnabled && g.Events.NATSURL == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: events.nats_url required when NATS publishing is enabled", errors.ErrMissingConfiguration),
			"Global", "Validate", "event bus validation")
	}
	return nil
}

// LoadFile reads and parses a YAML configuration file
func LoadFile(path string) (*Global, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config", "LoadFile", "read configuration file")
	}
	return Parse(data)
}

// Parse parses YAML configuration data
func Parse(data []byte) (*Global, error) {
	var g Global
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, errors.WrapInvalid(err, "config", "Parse", "parse YAML configuration")
	}

	// Fill defaults before validation so minimal configs stay minimal
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	if g.LogFormat == "" {
		g.LogFormat = "json"
	}
	if g.Metrics.Enabled && g.Metrics.Port == 0 {
		g.Metrics.Port = 9090
	}
	if g.Services == nil {
		g.Services = make(map[string]Override)
	}

	return &g, nil
}
