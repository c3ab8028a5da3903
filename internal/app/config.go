package app

import (
	"errors"
	"fmt"
)

// Invocation is one call to run, e.g. {"spawn_user", "Scott Pilgrim"}.
type Invocation struct {
	Call       string
	Identifier string
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModulesPath    string // hcl builder manifests
	AttributesPath string // yaml attribute overlays, optional
	SpawnPath      string // yaml batch of identifiers to spawn, optional

	LogFormat string
	LogLevel  string

	Calls []Invocation
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModulesPath == "" {
		return nil, errors.New("ModulesPath is a required configuration field and cannot be empty")
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	for i, inv := range cfg.Calls {
		if inv.Call == "" {
			return nil, fmt.Errorf("call #%d has an empty name", i+1)
		}
	}
	return &cfg, nil
}
