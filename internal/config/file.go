package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the TOML layout of the config file. Durations are plain
// second counts (the live window is hours) so the file stays hand-editable.
type fileConfig struct {
	Database struct {
		Path string `toml:"path"`
	} `toml:"database"`
	Tracker struct {
		PollIntervalSeconds      int `toml:"poll_interval_seconds"`
		IdleThresholdSeconds     int `toml:"idle_threshold_seconds"`
		GapThresholdSeconds      int `toml:"gap_threshold_seconds"`
		DebounceThresholdSeconds int `toml:"debounce_threshold_seconds"`
		LiveWindowHours          int `toml:"live_window_hours"`
	} `toml:"tracker"`
	Daemon struct {
		PIDFile string `toml:"pid_file"`
		LogFile string `toml:"log_file"`
	} `toml:"daemon"`
	Report struct {
		TimeZone string `toml:"timezone"`
		TopApps  int    `toml:"top_apps"`
	} `toml:"report"`
	Web struct {
		Host string `toml:"host"`
		Port int    `toml:"port"`
	} `toml:"web"`
}

// DefaultFilePath returns the conventional config file location,
// ~/.config/screentrack/config.toml.
func DefaultFilePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "screentrack", "config.toml"), nil
}

// LoadFile applies settings from a TOML file onto cfg. Fields absent from the
// file keep their current values; a missing file is not an error.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Database.Path != "" {
		cfg.Database.Path = fc.Database.Path
	}
	if fc.Tracker.PollIntervalSeconds > 0 {
		cfg.Tracker.PollInterval = time.Duration(fc.Tracker.PollIntervalSeconds) * time.Second
	}
	if fc.Tracker.IdleThresholdSeconds > 0 {
		cfg.Tracker.IdleThreshold = time.Duration(fc.Tracker.IdleThresholdSeconds) * time.Second
	}
	if fc.Tracker.GapThresholdSeconds > 0 {
		cfg.Tracker.GapThreshold = time.Duration(fc.Tracker.GapThresholdSeconds) * time.Second
	}
	if fc.Tracker.DebounceThresholdSeconds > 0 {
		cfg.Tracker.DebounceThreshold = time.Duration(fc.Tracker.DebounceThresholdSeconds) * time.Second
	}
	if fc.Tracker.LiveWindowHours > 0 {
		cfg.Tracker.LiveWindow = time.Duration(fc.Tracker.LiveWindowHours) * time.Hour
	}
	if fc.Daemon.PIDFile != "" {
		cfg.Daemon.PIDFile = fc.Daemon.PIDFile
	}
	if fc.Daemon.LogFile != "" {
		cfg.Daemon.LogFile = fc.Daemon.LogFile
	}
	if fc.Report.TimeZone != "" {
		cfg.Report.TimeZone = fc.Report.TimeZone
	}
	if fc.Report.TopApps > 0 {
		cfg.Report.TopApps = fc.Report.TopApps
	}
	if fc.Web.Host != "" {
		cfg.Web.Host = fc.Web.Host
	}
	if fc.Web.Port > 0 {
		cfg.Web.Port = fc.Web.Port
	}

	return nil
}
