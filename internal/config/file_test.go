package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"screentrack/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
path = "/tmp/test.db"

[tracker]
poll_interval_seconds = 10
idle_threshold_seconds = 300
live_window_hours = 12

[report]
timezone = "UTC"
top_apps = 5

[web]
host = "0.0.0.0"
port = 9999
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := config.Default()
	require.NoError(t, config.LoadFile(cfg, path))

	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 300*time.Second, cfg.Tracker.IdleThreshold)
	assert.Equal(t, 12*time.Hour, cfg.Tracker.LiveWindow)
	assert.Equal(t, "UTC", cfg.Report.TimeZone)
	assert.Equal(t, 5, cfg.Report.TopApps)
	assert.Equal(t, "0.0.0.0", cfg.Web.Host)
	assert.Equal(t, 9999, cfg.Web.Port)

	// Unset thresholds still inherit the (overridden) idle threshold.
	assert.Equal(t, 300*time.Second, cfg.EffectiveGapThreshold())
	assert.Equal(t, 300*time.Second, cfg.EffectiveDebounceThreshold())
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tracker]\ngap_threshold_seconds = 120\n"), 0644))

	cfg := config.Default()
	require.NoError(t, config.LoadFile(cfg, path))

	assert.Equal(t, 120*time.Second, cfg.Tracker.GapThreshold)
	assert.Equal(t, 5*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 600*time.Second, cfg.Tracker.IdleThreshold)
	assert.Equal(t, 600*time.Second, cfg.EffectiveDebounceThreshold())
}

func TestLoadFileMissingIsNoop(t *testing.T) {
	cfg := config.Default()
	want := *cfg

	require.NoError(t, config.LoadFile(cfg, filepath.Join(t.TempDir(), "nope.toml")))
	assert.Equal(t, want, *cfg)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0644))

	cfg := config.Default()
	assert.Error(t, config.LoadFile(cfg, path))
}
