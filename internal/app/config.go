package app

import (
	"errors"
	"os"
	"path/filepath"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// DefinitionPath is a single .hcl file or a directory of .hcl files.
	DefinitionPath string
	// Root is the directory asset sources are resolved against. Defaults to
	// the definition's directory.
	Root string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DefinitionPath == "" {
		return nil, errors.New("DefinitionPath is a required configuration field and cannot be empty")
	}
	if cfg.Root == "" {
		if info, err := os.Stat(cfg.DefinitionPath); err == nil && info.IsDir() {
			cfg.Root = cfg.DefinitionPath
		} else {
			cfg.Root = filepath.Dir(cfg.DefinitionPath)
		}
	}
	return &cfg, nil
}
