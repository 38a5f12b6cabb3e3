package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forager.yaml")
	body := []byte("workers: 2\nruntime: 3s\ninitial_scope: 25\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Workers != 2 {
		t.Errorf("workers = %d, want 2", cfg.Workers)
	}
	if cfg.Runtime != 3*time.Second {
		t.Errorf("runtime = %s, want 3s", cfg.Runtime)
	}
	if cfg.InitialScope != 25 {
		t.Errorf("initial scope = %d, want 25", cfg.InitialScope)
	}
	// Untouched fields keep defaults
	if cfg.Reward != 10 {
		t.Errorf("reward = %d, want default 10", cfg.Reward)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg := Default()
	if err := cfg.LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"workers high", func(c *Config) { c.Workers = MaxWorkers + 1 }},
		{"workers low", func(c *Config) { c.Workers = 0 }},
		{"length high", func(c *Config) { c.InitialLength = CmdMax + 1 }},
		{"scope low", func(c *Config) { c.InitialScope = 0 }},
		{"negative reward", func(c *Config) { c.Reward = -1 }},
		{"threshold high", func(c *Config) { c.RedundancyThreshold = 101 }},
		{"zero runtime", func(c *Config) { c.Runtime = 0 }},
		{"tiny trend window", func(c *Config) { c.TrendWindow = 1 }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
