package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailored-agentic-units/state/observability"
)

// Config holds Store initialization parameters. Observer is a registry name
// so the config can be expressed in JSON:
//
//	{"observer": "slog"}
type Config struct {
	Observer string `json:"observer,omitempty"`
}

// DefaultConfig returns a Config that discards all events.
func DefaultConfig() Config {
	return Config{
		Observer: "noop",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a JSON config file and merges it over DefaultConfig.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// NewFromConfig creates a Store whose observer is resolved by name from the
// observability registry. An empty name falls back to DefaultConfig.
func NewFromConfig(cfg *Config) (*Store, error) {
	s, err := buildFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	s.announce()
	return s, nil
}

func buildFromConfig(cfg *Config) (*Store, error) {
	resolved := DefaultConfig()
	if cfg != nil {
		resolved.Merge(cfg)
	}

	observer, err := observability.GetObserver(resolved.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	return build(WithObserver(observer)), nil
}
