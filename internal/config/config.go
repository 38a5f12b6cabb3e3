// Package config holds the runtime configuration for the forager agent:
// built-in defaults, an optional YAML overlay, and bounds validation.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// #region bounds

// Hard bounds shared by every component. These are not configurable;
// the configurable knobs below are validated against them.
const (
	CmdMax   = 10  // max argument slots per synthesized command
	CmdMin   = 1   // min synthesis length
	ScopeMin = 1   // min sampling scope (percent)
	ScopeMax = 100 // max sampling scope (percent)

	MaxWorkers = 8 // ceiling on concurrent workers
)

// #endregion bounds

// #region config

// Config bundles every tunable knob of the agent. Zero values are not
// meaningful; construct with Default and overlay with LoadFile.
type Config struct {
	// Learning
	Reward              int     `yaml:"reward"`               // delta for a novel observation
	Penalty             int     `yaml:"penalty"`              // delta (positive) for a redundant one
	RedundancyThreshold float64 `yaml:"redundancy_threshold"` // percent similarity judged redundant
	StoreRedundant      bool    `yaml:"store_redundant"`      // keep redundant observation lines too
	LineBuffer          int     `yaml:"line_buffer"`          // max tokens kept per observation line
	TrendWindow         int     `yaml:"trend_window"`         // trend tracker circular buffer size

	// Execution
	Runtime      time.Duration `yaml:"runtime"`       // child process wall-clock budget
	KillAttempts int           `yaml:"kill_attempts"` // SIGKILL rounds after the initial SIGTERM

	// Concurrency
	Workers       int           `yaml:"workers"`        // worker count (1..MaxWorkers)
	TunerInterval time.Duration `yaml:"tuner_interval"` // settings adjustment period

	// Synthesis
	InitialLength int `yaml:"initial_length"` // starting command length (CmdMin..CmdMax)
	InitialScope  int `yaml:"initial_scope"`  // starting scope percent (ScopeMin..ScopeMax)

	// Seeding
	SeedPerDirCap    int           `yaml:"seed_per_dir_cap"`   // max words added per directory (0 = unlimited)
	SeedDirTimeout   time.Duration `yaml:"seed_dir_timeout"`   // per-directory scan budget (0 = none)
	SeedSkipSymlinks bool          `yaml:"seed_skip_symlinks"` // skip symlinks during PATH scan

	// Persistence & logging
	DBPath        string `yaml:"db_path"`        // SQLite database file
	OutputPreview int    `yaml:"output_preview"` // bytes of child output echoed to the log
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Reward:              10,
		Penalty:             1,
		RedundancyThreshold: 75.0,
		StoreRedundant:      true,
		LineBuffer:          100,
		TrendWindow:         10,

		Runtime:      10 * time.Second,
		KillAttempts: 3,

		Workers:       MaxWorkers,
		TunerInterval: 1500 * time.Millisecond,

		InitialLength: 1,
		InitialScope:  50,

		SeedPerDirCap:    5000,
		SeedDirTimeout:   8 * time.Second,
		SeedSkipSymlinks: true,

		DBPath:        "data/forager.db",
		OutputPreview: 200,
	}
}

// #endregion config

// #region load

// LoadFile overlays the YAML file at path onto c. Fields absent from the
// file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// #endregion load

// #region validate

// Validate checks every knob against its bounds.
func (c *Config) Validate() error {
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers %d out of range 1..%d", c.Workers, MaxWorkers)
	}
	if c.InitialLength < CmdMin || c.InitialLength > CmdMax {
		return fmt.Errorf("initial length %d out of range %d..%d", c.InitialLength, CmdMin, CmdMax)
	}
	if c.InitialScope < ScopeMin || c.InitialScope > ScopeMax {
		return fmt.Errorf("initial scope %d out of range %d..%d", c.InitialScope, ScopeMin, ScopeMax)
	}
	if c.Reward <= 0 || c.Penalty <= 0 {
		return fmt.Errorf("reward and penalty must be positive (got %d, %d)", c.Reward, c.Penalty)
	}
	if c.RedundancyThreshold < 0 || c.RedundancyThreshold > 100 {
		return fmt.Errorf("redundancy threshold %.1f out of range 0..100", c.RedundancyThreshold)
	}
	if c.LineBuffer <= 0 {
		return fmt.Errorf("line buffer must be positive (got %d)", c.LineBuffer)
	}
	if c.TrendWindow < 2 {
		return fmt.Errorf("trend window must be at least 2 (got %d)", c.TrendWindow)
	}
	if c.Runtime <= 0 {
		return fmt.Errorf("runtime must be positive (got %s)", c.Runtime)
	}
	if c.KillAttempts < 1 {
		return fmt.Errorf("kill attempts must be at least 1 (got %d)", c.KillAttempts)
	}
	if c.TunerInterval <= 0 {
		return fmt.Errorf("tuner interval must be positive (got %s)", c.TunerInterval)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path must not be empty")
	}
	return nil
}

// #endregion validate
