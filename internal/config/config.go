package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Tracker configuration
	Tracker TrackerConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Report configuration
	Report ReportConfig

	// Web server configuration
	Web WebConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// TrackerConfig holds tracking and reconstruction configuration
type TrackerConfig struct {
	PollInterval    time.Duration // How often to sample the platform probe
	MinPollInterval time.Duration // Minimum allowed poll interval
	MaxPollInterval time.Duration // Maximum allowed poll interval
	IdleThreshold   time.Duration // Time without input before the user counts as idle

	// GapThreshold is the longest event-less silence an active period may
	// absorb before reconstruction declares it inactive. Zero means
	// "inherit IdleThreshold".
	GapThreshold time.Duration

	// DebounceThreshold is the longest inactive period that daily totals
	// still count as active. Zero means "inherit IdleThreshold".
	DebounceThreshold time.Duration

	// LiveWindow is the trailing window the session and break views
	// reconstruct over.
	LiveWindow time.Duration
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
	LogFile string // Path to daemon log file
}

// ReportConfig holds report generation configuration
type ReportConfig struct {
	TimeZone string
	TopApps  int // How many applications reports list
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string // Host to bind web server to
	Port int    // Port for web server
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.local/share/screentrack/screentrack.db
		},
		Tracker: TrackerConfig{
			PollInterval:      5 * time.Second,
			MinPollInterval:   2 * time.Second,
			MaxPollInterval:   300 * time.Second,
			IdleThreshold:     600 * time.Second,
			GapThreshold:      0, // inherit idle threshold
			DebounceThreshold: 0, // inherit idle threshold
			LiveWindow:        24 * time.Hour,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/screentrack-%d.pid", os.Getuid()),
			LogFile: "/tmp/screentrack.log",
		},
		Report: ReportConfig{
			TimeZone: "Local",
			TopApps:  10,
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Tracker.PollInterval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Tracker.PollInterval, c.Tracker.MinPollInterval)
	}

	if c.Tracker.PollInterval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Tracker.PollInterval, c.Tracker.MaxPollInterval)
	}

	if c.Tracker.IdleThreshold <= 0 {
		return fmt.Errorf("idle threshold must be positive")
	}

	if c.Tracker.GapThreshold < 0 {
		return fmt.Errorf("gap threshold cannot be negative")
	}

	if c.Tracker.DebounceThreshold < 0 {
		return fmt.Errorf("debounce threshold cannot be negative")
	}

	if c.Tracker.LiveWindow <= 0 {
		return fmt.Errorf("live window must be positive")
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	if c.Report.TopApps < 1 {
		return fmt.Errorf("report top apps must be at least 1")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Tracker.MinPollInterval)
	}
	if interval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Tracker.MaxPollInterval)
	}
	c.Tracker.PollInterval = interval
	return nil
}

// SetWebPort sets the web server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// EffectiveGapThreshold resolves the gap threshold, inheriting the idle
// threshold when unset.
func (c *Config) EffectiveGapThreshold() time.Duration {
	if c.Tracker.GapThreshold > 0 {
		return c.Tracker.GapThreshold
	}
	return c.Tracker.IdleThreshold
}

// EffectiveDebounceThreshold resolves the debounce threshold, inheriting the
// idle threshold when unset.
func (c *Config) EffectiveDebounceThreshold() time.Duration {
	if c.Tracker.DebounceThreshold > 0 {
		return c.Tracker.DebounceThreshold
	}
	return c.Tracker.IdleThreshold
}

// GetIdleThresholdSeconds returns the idle threshold in seconds
func (c *Config) GetIdleThresholdSeconds() int64 {
	return int64(c.Tracker.IdleThreshold.Seconds())
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Tracker:
    Poll Interval: %v
    Idle Threshold: %v
    Gap Threshold: %v
    Debounce Threshold: %v
    Live Window: %v
  Daemon:
    PID File: %s
    Log File: %s
  Report:
    Time Zone: %s
    Top Apps: %d
  Web:
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Tracker.PollInterval,
		c.Tracker.IdleThreshold,
		c.EffectiveGapThreshold(),
		c.EffectiveDebounceThreshold(),
		c.Tracker.LiveWindow,
		c.Daemon.PIDFile,
		c.Daemon.LogFile,
		c.Report.TimeZone,
		c.Report.TopApps,
		c.Web.Host,
		c.Web.Port,
	)
}
