package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIDManager(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "run", "mock.pid")

	t.Run("WritePID", func(t *testing.T) {
		manager := NewPIDManager(pidFile)
		assert.Equal(t, pidFile, manager.GetPIDFile())
		require.NoError(t, manager.WritePID())

		content, err := os.ReadFile(pidFile)
		require.NoError(t, err)
		pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
		require.NoError(t, err)
		assert.Equal(t, os.Getpid(), pid)
	})

	t.Run("RewriteOwnPID", func(t *testing.T) {
		require.NoError(t, NewPIDManager(pidFile).WritePID())
	})

	t.Run("RemovePID", func(t *testing.T) {
		manager := NewPIDManager(pidFile)
		require.NoError(t, manager.WritePID())
		require.NoError(t, manager.RemovePID())

		_, err := os.Stat(pidFile)
		assert.True(t, os.IsNotExist(err))
		assert.NoError(t, manager.RemovePID())
	})
}

func TestPIDManager_LiveProcess(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "mock.pid")
	// the parent of the test binary is alive for the duration of the test
	require.NoError(t, os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getppid())), 0644))

	err := NewPIDManager(pidFile).WritePID()
	assert.ErrorIs(t, err, ErrProcessRunning)
}

func TestPIDManager_Signal(t *testing.T) {
	dir := t.TempDir()

	err := NewPIDManager(filepath.Join(dir, "missing.pid")).Signal(syscall.Signal(0))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.pid")
	require.NoError(t, os.WriteFile(bad, []byte("abc"), 0644))
	assert.Error(t, NewPIDManager(bad).Signal(syscall.Signal(0)))

	zero := filepath.Join(dir, "zero.pid")
	require.NoError(t, os.WriteFile(zero, []byte("0"), 0644))
	assert.Error(t, NewPIDManager(zero).Signal(syscall.Signal(0)))

	own := filepath.Join(dir, "own.pid")
	m := NewPIDManager(own)
	require.NoError(t, m.WritePID())
	assert.NoError(t, m.Signal(syscall.Signal(0)))
}
