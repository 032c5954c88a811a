package driver

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config holds the deployment-level tuning knobs: a live-version limit,
// logging verbosity, and whether incremental reuse is attempted at all.
// The zero value leaves LogLevel empty; DefaultConfig sets it to "info".
type Config struct {
	// MaxVersionCount bounds how many live stack versions a parse may
	// carry at once. Zero means unbounded. This stands in for the
	// allocation-failure path tree-sitter's C implementation has and Go
	// does not: handle_error's version growth must have somewhere to stop
	// in a long-running service.
	MaxVersionCount int `yaml:"max_version_count"`

	// LogLevel names a log/slog level ("debug", "info", "warn", "error")
	// for the parser's internal diagnostics logger. Parser does not apply
	// it: the logger installed with SetLogger is used as is.
	LogLevel string `yaml:"log_level"`

	// DisableReuse forces every Parse call to behave as a cold parse,
	// ignoring any previous tree passed in. Useful for isolating whether a
	// bug lives in the reuse path or the core grammar logic.
	DisableReuse bool `yaml:"disable_reuse"`
}

// DefaultConfig returns the zero-tuning configuration: unbounded
// versions, info-level logging, reuse enabled.
func DefaultConfig() Config {
	return Config{LogLevel: "info"}
}

// LoadConfig decodes a YAML document into a Config, starting from
// DefaultConfig so an incomplete document still yields sane values.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("driver: decode config: %w", err)
	}
	return cfg, nil
}
