package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override file and default values
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("SCREENTRACK_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Tracker configuration
	if pollInterval := os.Getenv("SCREENTRACK_POLL_INTERVAL"); pollInterval != "" {
		if seconds, err := strconv.Atoi(pollInterval); err == nil && seconds > 0 {
			interval := time.Duration(seconds) * time.Second
			if interval >= cfg.Tracker.MinPollInterval && interval <= cfg.Tracker.MaxPollInterval {
				cfg.Tracker.PollInterval = interval
			}
		}
	}

	if idleThreshold := os.Getenv("SCREENTRACK_IDLE_THRESHOLD"); idleThreshold != "" {
		if seconds, err := strconv.Atoi(idleThreshold); err == nil && seconds > 0 {
			cfg.Tracker.IdleThreshold = time.Duration(seconds) * time.Second
		}
	}

	if gapThreshold := os.Getenv("SCREENTRACK_GAP_THRESHOLD"); gapThreshold != "" {
		if seconds, err := strconv.Atoi(gapThreshold); err == nil && seconds > 0 {
			cfg.Tracker.GapThreshold = time.Duration(seconds) * time.Second
		}
	}

	if debounce := os.Getenv("SCREENTRACK_DEBOUNCE_THRESHOLD"); debounce != "" {
		if seconds, err := strconv.Atoi(debounce); err == nil && seconds > 0 {
			cfg.Tracker.DebounceThreshold = time.Duration(seconds) * time.Second
		}
	}

	if liveWindow := os.Getenv("SCREENTRACK_LIVE_WINDOW"); liveWindow != "" {
		if hours, err := strconv.Atoi(liveWindow); err == nil && hours > 0 {
			cfg.Tracker.LiveWindow = time.Duration(hours) * time.Hour
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("SCREENTRACK_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	if logFile := os.Getenv("SCREENTRACK_LOG_FILE"); logFile != "" {
		cfg.Daemon.LogFile = logFile
	}

	// Report configuration
	if timeZone := os.Getenv("SCREENTRACK_TIMEZONE"); timeZone != "" {
		cfg.Report.TimeZone = timeZone
	}

	// Web configuration
	if webHost := os.Getenv("SCREENTRACK_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("SCREENTRACK_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}
}

// New creates a new Config with default values, applies the optional config
// file, then loads environment overrides.
func New() *Config {
	cfg := Default()
	if path, err := DefaultFilePath(); err == nil {
		// A missing or unreadable file falls back to defaults.
		_ = LoadFile(cfg, path)
	}
	LoadFromEnv(cfg)
	return cfg
}
