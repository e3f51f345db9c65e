package config

import (
	"errors"
	"fmt"
	"time"
)

// Defaults applied when a setting is absent from the config file.
const (
	DefaultTargetDirectory = "snapshots"
	DefaultLogDirectory    = "logs"
	DefaultRetentionDays   = 30
)

var (
	ErrInvalidRetention = errors.New("retentionDays must be a non-negative integer")
)

type Config struct {
	TargetDirectory       string         `yaml:"targetDirectory"`
	RetentionDays         *int           `yaml:"retentionDays"`
	LogDirectory          string         `yaml:"logDirectory"`
	UseMachineDirectories *bool          `yaml:"useMachineDirectories"`
	Units                 []UnitConfig   `yaml:"units"`
	Schedule              ScheduleConfig `yaml:"schedule"`
	ConfigReload          ReloadConfig   `yaml:"configReload"`
}

// UnitConfig describes one generation unit: an external executable that
// writes a single artifact into the latest directory.
type UnitConfig struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"displayName"`
	Description string `yaml:"description"`
	Executable  string `yaml:"executable"`
	Artifact    string `yaml:"artifact"`
}

type ScheduleConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"` // e.g. "0 3 * * *"
}

type ReloadConfig struct {
	Enabled        bool          `yaml:"enabled"`
	DebounceWindow time.Duration `yaml:"debounceWindow"` // e.g. 500ms
}

// Retention returns the configured retention window in days, or the
// default when the setting is absent.
func (c *Config) Retention() int {
	if c.RetentionDays == nil {
		return DefaultRetentionDays
	}
	return *c.RetentionDays
}

// MachineDirectories reports whether snapshots are namespaced per machine.
// Enabled by default.
func (c *Config) MachineDirectories() bool {
	if c.UseMachineDirectories == nil {
		return true
	}
	return *c.UseMachineDirectories
}

func (c *Config) applyDefaults() {
	if c.TargetDirectory == "" {
		c.TargetDirectory = DefaultTargetDirectory
	}
	if c.LogDirectory == "" {
		c.LogDirectory = DefaultLogDirectory
	}
	if c.ConfigReload.DebounceWindow <= 0 {
		c.ConfigReload.DebounceWindow = 500 * time.Millisecond
	}
}

// Validate rejects settings the rest of the system is not prepared to
// coerce: negative retention is an error, never "keep everything".
func (c *Config) Validate() error {
	if c.RetentionDays != nil && *c.RetentionDays < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRetention, *c.RetentionDays)
	}

	seen := make(map[string]struct{}, len(c.Units))
	for i, u := range c.Units {
		if u.Name == "" {
			return fmt.Errorf("unit %d: name is empty", i)
		}
		if _, dup := seen[u.Name]; dup {
			return fmt.Errorf("unit %q: duplicate name", u.Name)
		}
		seen[u.Name] = struct{}{}

		if u.Executable == "" {
			return fmt.Errorf("unit %q: executable is empty", u.Name)
		}
		if u.Artifact == "" {
			return fmt.Errorf("unit %q: artifact is empty", u.Name)
		}
	}

	if c.Schedule.Enabled && c.Schedule.Cron == "" {
		return fmt.Errorf("schedule enabled but cron expression is empty")
	}

	return nil
}
