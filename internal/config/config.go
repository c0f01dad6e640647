// Package config loads the client configuration: defaults first, then the
// YAML file, then flag overrides applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Enterzhang/novels2.0/internal/store"
)

// Config is the client configuration file shape.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
	DataDir string `yaml:"data_dir"`
}

// Default returns the configuration applied when no file exists.
func Default() Config {
	var c Config
	c.API.BaseURL = "http://localhost:8000/api"
	c.API.TimeoutSeconds = 10
	c.DataDir = store.DefaultDir()
	return c
}

// Timeout is the per-request upper bound derived from the config.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Load reads path over Default(). A missing file is not an error — defaults
// apply, matching a first run.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = Default().API.BaseURL
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = Default().API.TimeoutSeconds
	}
	if cfg.DataDir == "" {
		cfg.DataDir = Default().DataDir
	}
	return cfg, nil
}
