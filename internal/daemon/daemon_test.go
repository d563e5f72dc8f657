package daemon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRemovePID(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "test.pid")
	d := New(pidFile)

	require.NoError(t, d.WritePID())

	pid, err := d.ReadPID()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, d.RemovePID())

	pid, err = d.ReadPID()
	require.NoError(t, err)
	assert.Zero(t, pid, "missing PID file reads as zero")
}

func TestIsRunningOwnProcess(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "test.pid")
	d := New(pidFile)
	require.NoError(t, d.WritePID())

	running, pid, err := d.IsRunning()
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, os.Getpid(), pid)
}

func TestIsRunningStalePIDRemovesFile(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "test.pid")
	// PID far beyond pid_max.
	require.NoError(t, os.WriteFile(pidFile, []byte("99999999"), 0644))
	d := New(pidFile)

	running, _, err := d.IsRunning()
	require.NoError(t, err)
	assert.False(t, running)

	_, statErr := os.Stat(pidFile)
	assert.True(t, os.IsNotExist(statErr), "stale PID file must be cleaned up")
}

func TestReadPIDMalformed(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "test.pid")
	require.NoError(t, os.WriteFile(pidFile, []byte("not a pid"), 0644))

	_, err := New(pidFile).ReadPID()
	assert.Error(t, err)
}

func TestStopNotRunning(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "test.pid"))
	assert.Error(t, d.Stop())
}
