// Package config loads engine tuning from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full engine configuration. Every field has a default;
// a missing file or empty document is valid.
type Config struct {
	Scheduler  Scheduler  `yaml:"scheduler"`
	Simulation Simulation `yaml:"simulation"`
}

// Scheduler tunes the CPM pass.
type Scheduler struct {
	// BottleneckSlackDays is the slack threshold (working days) below
	// which a task is reported as a near-critical bottleneck.
	BottleneckSlackDays int `yaml:"bottleneck_slack_days"`
}

// Simulation tunes the Monte Carlo run.
type Simulation struct {
	Iterations int `yaml:"iterations"`
	// Seed fixes the random source when nonzero, for reproducible runs.
	Seed int64 `yaml:"seed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Scheduler:  Scheduler{BottleneckSlackDays: 2},
		Simulation: Simulation{Iterations: 1000},
	}
}

// Load reads path and overlays it on the defaults. A missing file is
// not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Scheduler.BottleneckSlackDays <= 0 {
		cfg.Scheduler.BottleneckSlackDays = 2
	}
	if cfg.Simulation.Iterations <= 0 {
		cfg.Simulation.Iterations = 1000
	}
	return cfg, nil
}
