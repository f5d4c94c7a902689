// Package config holds engine configuration loaded from JSON files with
// environment variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
)

// Config holds all engine settings.
type Config struct {
	// MaxObjects caps the number of live API objects across all kinds.
	MaxObjects int `json:"max_objects" env:"GOCESSING_MAX_OBJECTS"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" env:"GOCESSING_LOG_LEVEL"`
	// ClearColor is the RGBA color new surfaces are cleared to.
	ClearColor [4]float32 `json:"clear_color"`
}

// Default returns the configuration used when no file is provided:
// Processing's light-gray canvas and a generous object cap.
func Default() Config {
	return Config{
		MaxObjects: 4096,
		LogLevel:   "info",
		ClearColor: [4]float32{0.8, 0.8, 0.8, 1},
	}
}

// Loader loads configuration from JSON files using the fs.FS interface.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a config loader reading from fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Load reads name from the filesystem, unmarshals it over the defaults,
// then applies environment overrides.
func (l *Loader) Load(name string) (Config, error) {
	cfg := Default()

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied, for
// callers with no config file.
func FromEnv() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	return cfg, nil
}
