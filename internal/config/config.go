// Package config loads and validates the harness configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "250ms" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full harness configuration.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
	Trace     TraceConfig     `yaml:"trace"`
	Sim       SimConfig       `yaml:"sim"`
}

// SchedulerConfig mirrors the scheduler's build-time constants.
type SchedulerConfig struct {
	PoolDepth        int   `yaml:"pool_depth"`
	RxBoundary       uint8 `yaml:"rx_boundary"`
	SendDoneBoundary uint8 `yaml:"senddone_boundary"`
	AppBoundary      uint8 `yaml:"app_boundary"`
}

// LogConfig selects log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// HTTPConfig configures the debug/stats endpoint. Empty Addr disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// TraceConfig configures execution tracing. Empty DBPath records in memory
// only; ":memory:" keeps SQLite fully in RAM.
type TraceConfig struct {
	DBPath string `yaml:"db_path"`
}

// SimConfig drives the traffic generator.
type SimConfig struct {
	Duration         Duration `yaml:"duration"`          // total run length; 0 means run until interrupted
	RxInterval       Duration `yaml:"rx_interval"`       // synthetic frame arrival period
	SendDoneInterval Duration `yaml:"senddone_interval"` // synthetic transmit-completion period
	AppInterval      Duration `yaml:"app_interval"`      // synthetic application event period
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Scheduler: SchedulerConfig{
			PoolDepth:        10,
			RxBoundary:       4,
			SendDoneBoundary: 8,
			AppBoundary:      16,
		},
		Log:  LogConfig{Level: "info", Format: "text"},
		HTTP: HTTPConfig{Addr: ""},
		Sim: SimConfig{
			Duration:         Duration(5 * time.Second),
			RxInterval:       Duration(3 * time.Millisecond),
			SendDoneInterval: Duration(7 * time.Millisecond),
			AppInterval:      Duration(20 * time.Millisecond),
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults
// unchanged. The result is validated either way.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the harness-level settings. The scheduler section gets its
// full check again in sched.New; the cheap structural checks here let
// `gomote validate` report problems without constructing anything.
func (c Config) Validate() error {
	s := c.Scheduler
	if s.PoolDepth <= 0 {
		return fmt.Errorf("scheduler.pool_depth must be positive, got %d", s.PoolDepth)
	}
	if s.RxBoundary == 0 || s.RxBoundary >= s.SendDoneBoundary || s.SendDoneBoundary >= s.AppBoundary {
		return fmt.Errorf("scheduler band boundaries must satisfy 0 < rx < senddone < app, got %d, %d, %d",
			s.RxBoundary, s.SendDoneBoundary, s.AppBoundary)
	}
	for name, iv := range map[string]Duration{
		"sim.rx_interval":       c.Sim.RxInterval,
		"sim.senddone_interval": c.Sim.SendDoneInterval,
		"sim.app_interval":      c.Sim.AppInterval,
	} {
		if iv <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, iv.Std())
		}
	}
	if c.Sim.Duration < 0 {
		return fmt.Errorf("sim.duration must not be negative, got %s", c.Sim.Duration.Std())
	}
	return nil
}
