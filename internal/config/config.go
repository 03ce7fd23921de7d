// Package config loads docreflow's configuration from a cascade of sources:
// built-in defaults, a global config file, the nearest project config file,
// and environment variable overrides, in that order of increasing priority.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/kestrel-tools/docreflow/internal/q/cascade"
)

// Config is docreflow's configuration.
type Config struct {
	// MaxLineLength is the max width when reflowing documentation. Defaults
	// to 100.
	MaxLineLength int `json:"maxlinelength"`
}

// Load builds the configuration cascade and loads it, searching for a
// project config starting at startDir (the current working directory is
// used when startDir is empty).
func Load(startDir string) (Config, error) {
	loader := cascade.New().
		WithDefaults(map[string]any{"maxlinelength": 100}).
		WithJSONFile(cascade.ExpandPath("~/.docreflow/config.json")).
		WithNearestJSONFile(filepath.Join(".docreflow", "config.json"), startDir).
		WithEnv(map[string]string{"maxlinelength": "DOCREFLOW_MAX_LINE_LENGTH"})

	var cfg Config
	if err := loader.StrictlyLoad(&cfg); err != nil {
		return Config{}, fmt.Errorf("load configuration: %w", err)
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.MaxLineLength <= 0 {
		return fmt.Errorf("invalid configuration: maxlinelength must be > 0 (got %d)", cfg.MaxLineLength)
	}
	return nil
}
