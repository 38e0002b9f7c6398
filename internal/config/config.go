// Package config reads environment settings and the solver tuning file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SolverConfig tunes the solve pipeline. Loaded from YAML; zero values fall
// back to the defaults below.
type SolverConfig struct {
	TimeLimitSec    int     `yaml:"time_limit_sec"`
	MaxTimeLimitSec int     `yaml:"max_time_limit_sec"`
	Tolerance       float64 `yaml:"tolerance"`
	PlansPerMinute  int     `yaml:"plans_per_minute"`
}

func defaultSolverConfig() SolverConfig {
	return SolverConfig{
		TimeLimitSec:    60,
		MaxTimeLimitSec: 600,
		Tolerance:       1e-5,
		PlansPerMinute:  10,
	}
}

// LoadSolverConfig reads the tuning file at path. A missing file yields the
// defaults; a malformed one is an error.
func LoadSolverConfig(path string) (SolverConfig, error) {
	cfg := defaultSolverConfig()

	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return SolverConfig{}, fmt.Errorf("load solver config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return SolverConfig{}, fmt.Errorf("load solver config: parse %q: %w", path, err)
	}

	if cfg.TimeLimitSec < 0 || cfg.MaxTimeLimitSec < 0 {
		return SolverConfig{}, fmt.Errorf("load solver config: time limits must not be negative")
	}
	if cfg.PlansPerMinute <= 0 {
		cfg.PlansPerMinute = defaultSolverConfig().PlansPerMinute
	}

	return cfg, nil
}
