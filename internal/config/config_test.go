package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gomote.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scheduler.PoolDepth != 10 {
		t.Errorf("default pool depth = %d, want 10", cfg.Scheduler.PoolDepth)
	}
	if cfg.Scheduler.RxBoundary != 4 || cfg.Scheduler.SendDoneBoundary != 8 || cfg.Scheduler.AppBoundary != 16 {
		t.Errorf("default boundaries = %d/%d/%d, want 4/8/16",
			cfg.Scheduler.RxBoundary, cfg.Scheduler.SendDoneBoundary, cfg.Scheduler.AppBoundary)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
scheduler:
  pool_depth: 32
  rx_boundary: 8
  senddone_boundary: 16
  app_boundary: 32
log:
  level: debug
sim:
  duration: 2s
  rx_interval: 1ms
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scheduler.PoolDepth != 32 || cfg.Scheduler.AppBoundary != 32 {
		t.Errorf("scheduler overrides not applied: %+v", cfg.Scheduler)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Sim.Duration.Std() != 2*time.Second {
		t.Errorf("sim duration = %s, want 2s", cfg.Sim.Duration.Std())
	}
	// Untouched keys keep their defaults.
	if cfg.Sim.AppInterval.Std() != 20*time.Millisecond {
		t.Errorf("sim app interval = %s, want default 20ms", cfg.Sim.AppInterval.Std())
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero pool", func(c *Config) { c.Scheduler.PoolDepth = 0 }},
		{"band gap inversion", func(c *Config) { c.Scheduler.SendDoneBoundary = 3 }},
		{"zero rx boundary", func(c *Config) { c.Scheduler.RxBoundary = 0 }},
		{"zero interval", func(c *Config) { c.Sim.RxInterval = 0 }},
		{"negative duration", func(c *Config) { c.Sim.Duration = Duration(-time.Second) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate accepted invalid config")
			}
		})
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, "sim:\n  duration: soon\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("Load accepted unparseable duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("Load accepted missing file")
	}
}
