package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"carelink/internal/domain/schedule"
)

// Config is the process-start configuration for the escalation scheduler
// and its session windows. Loaded once at boot; there is no runtime
// reconfiguration surface.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Sessions  []SessionConfig `yaml:"sessions"`
}

// SchedulerConfig tunes the recurring evaluation loop.
type SchedulerConfig struct {
	IntervalMinutes int `yaml:"interval_minutes"`
	// RetryFailedWrites leaves a pair eligible for the next tick when its
	// escalation write fails, instead of forfeiting the day's attempt.
	RetryFailedWrites bool `yaml:"retry_failed_writes"`
	// TimezoneOffsetHours fixes the civil timezone. The app serves one
	// region; host timezone must not leak into day-rollover decisions.
	TimezoneOffsetHours int `yaml:"timezone_offset_hours"`
}

// SessionConfig is one named time-of-day window in "HH:mm" form.
type SessionConfig struct {
	Name         string `yaml:"name"`
	Start        string `yaml:"start"`
	End          string `yaml:"end"`
	GraceMinutes int    `yaml:"grace_minutes"`
}

// Default returns the compiled-in configuration used when no file is given.
func Default() Config {
	return Config{
		Scheduler: SchedulerConfig{
			IntervalMinutes:     15,
			TimezoneOffsetHours: 8,
		},
		Sessions: []SessionConfig{
			{Name: "morning", Start: "06:00", End: "12:00", GraceMinutes: 30},
			{Name: "night", Start: "18:00", End: "22:00", GraceMinutes: 30},
		},
	}
}

// Load reads configuration from the YAML file at path. An empty path yields
// the defaults; a missing or invalid file is an error rather than a silent
// fallback.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Scheduler.IntervalMinutes <= 0 {
		return errors.New("scheduler interval must be positive")
	}
	if len(c.Sessions) == 0 {
		return errors.New("at least one session window is required")
	}
	return nil
}

// Interval returns the scheduler tick interval.
func (c Config) Interval() time.Duration {
	return time.Duration(c.Scheduler.IntervalMinutes) * time.Minute
}

// Registry builds the immutable session window registry from the config.
func (c Config) Registry() (*schedule.Registry, error) {
	windows := make([]schedule.Window, 0, len(c.Sessions))
	for _, s := range c.Sessions {
		start, err := schedule.ParseClock(s.Start)
		if err != nil {
			return nil, fmt.Errorf("session %q: %w", s.Name, err)
		}
		end, err := schedule.ParseClock(s.End)
		if err != nil {
			return nil, fmt.Errorf("session %q: %w", s.Name, err)
		}
		windows = append(windows, schedule.Window{
			Name:         s.Name,
			Start:        start,
			End:          end,
			GraceMinutes: s.GraceMinutes,
		})
	}
	return schedule.NewRegistry(windows)
}
