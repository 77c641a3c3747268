package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigError wraps any failure to read or parse a mapping configuration.
// Configuration problems are batch-fatal: nothing is processed after one.
type ConfigError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("mapping config: %v", e.Err)
	}

	return fmt.Sprintf("mapping config %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// LoadFile loads and parses a YAML mapping configuration from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	return cfg, nil
}

// Parse parses YAML data into a Config. Transformation names referenced by
// rules are not checked here; they are resolved lazily at use time, so a
// bad name only fails the records whose rules reach it.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.DateFormat == "" {
		cfg.DateFormat = "YYYY-MM-DD"
	}

	if cfg.LegAssignment.RoleField == "" {
		cfg.LegAssignment.RoleField = "legs[{idx}].leg_generator.rp"
	}

	if cfg.LegAssignment.Roles.Receive == "" {
		cfg.LegAssignment.Roles.Receive = "A"
	}

	if cfg.LegAssignment.Roles.Pay == "" {
		cfg.LegAssignment.Roles.Pay = "P"
	}
}
