// Package config provides configuration types, merging, and validation
// for servicekit services.
package config

import (
	"fmt"

	"github.com/wakewell/servicekit/errors"
)

// Environment identifies which deployment environment a service runs in.
// The set is fixed; anything else fails validation.
type Environment string

// Supported environments
const (
	EnvDevelopment Environment = "dev"
	EnvTest        Environment = "test"
	EnvProduction  Environment = "prod"
)

// Valid reports whether the environment is one of the supported values
func (e Environment) Valid() bool {
	switch e {
	case EnvDevelopment, EnvTest, EnvProduction:
		return true
	default:
		return false
	}
}

// Service holds the effective configuration a service initializes with.
// Environment and Enabled are mandatory for every service; Options carries
// service-specific settings.
type Service struct {
	Environment Environment    `json:"environment" yaml:"environment"`
	Enabled     bool           `json:"enabled" yaml:"enabled"`
	Options     map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Validate checks the mandatory fields of a service configuration
func (s Service) Validate() error {
	if s.Environment == "" {
		return errors.WrapInvalid(errors.ErrMissingConfiguration,
			"Service", "Validate", "environment validation")
	}
	if !s.Environment.Valid() {
		return errors.WrapInvalid(
			fmt.Errorf("%w: unknown environment %q", errors.ErrInvalidConfiguration, s.Environment),
			"Service", "Validate", "environment validation")
	}
	return nil
}

// Override is a partial service configuration layered over a base Service.
// Zero-value fields are "not set": a nil Enabled leaves the base flag
// untouched, an empty Environment keeps the base environment, and Options
// are merged key-wise with the override winning.
type Override struct {
	Environment Environment    `json:"environment,omitempty" yaml:"environment,omitempty"`
	Enabled     *bool          `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Options     map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Merge layers an override on top of a base configuration and returns the
// effective configuration. Neither input is mutated.
func Merge(base Service, override Override) Service {
	merged := Service{
		Environment: base.Environment,
		Enabled:     base.Enabled,
	}

	if override.Environment != "" {
		merged.Environment = override.Environment
	}
	if override.Enabled != nil {
		merged.Enabled = *override.Enabled
	}

	if len(base.Options) > 0 || len(override.Options) > 0 {
		merged.Options = make(map[string]any, len(base.Options)+len(override.Options))
		for k, v := range base.Options {
			merged.Options[k] = v
		}
		for k, v := range override.Options {
			merged.Options[k] = v
		}
	}

	return merged
}

// Bool is a convenience for building Override literals
func Bool(v bool) *bool {
	return &v
}

// String safely extracts a string option with a default fallback
func (s Service) String(key, defaultValue string) string {
	if value, exists := s.Options[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

// Int safely extracts an integer option with a default fallback.
// YAML and JSON decoders produce different numeric types, so all common
// ones are accepted.
func (s Service) Int(key string, defaultValue int) int {
	if value, exists := s.Options[key]; exists {
		switch v := value.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return defaultValue
}

// Bool safely extracts a boolean option with a default fallback
func (s Service) Bool(key string, defaultValue bool) bool {
	if value, exists := s.Options[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	return defaultValue
}

// Float safely extracts a float option with a default fallback
func (s Service) Float(key string, defaultValue float64) float64 {
	if value, exists := s.Options[key]; exists {
		switch v := value.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		}
	}
	return defaultValue
}
