package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrProcessRunning is returned when the PID file names a live process
var ErrProcessRunning = errors.New("process already running")

// PIDManager handles PID file operations
type PIDManager struct {
	pidFile string
}

// NewPIDManager creates a new PIDManager instance
func NewPIDManager(pidFile string) *PIDManager {
	return &PIDManager{
		pidFile: pidFile,
	}
}

// WritePID writes the current process ID to the PID file. A file left by a
// process that is gone is overwritten.
func (p *PIDManager) WritePID() error {
	if pid, err := readPIDFile(p.pidFile); err == nil && pid != os.Getpid() && processAlive(pid) {
		return fmt.Errorf("%w: pid %d in %s", ErrProcessRunning, pid, p.pidFile)
	}

	if err := os.MkdirAll(filepath.Dir(p.pidFile), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	return os.WriteFile(p.pidFile, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644)
}

// RemovePID removes the PID file
func (p *PIDManager) RemovePID() error {
	if err := os.Remove(p.pidFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// GetPIDFile returns the PID file path
func (p *PIDManager) GetPIDFile() string {
	return p.pidFile
}

// Signal sends sig to the process named in the PID file
func (p *PIDManager) Signal(sig syscall.Signal) error {
	pid, err := readPIDFile(p.pidFile)
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("process not found: %w", err)
	}
	if err := process.Signal(sig); err != nil {
		return fmt.Errorf("failed to send signal: %w", err)
	}
	return nil
}

func readPIDFile(pidFile string) (int, error) {
	pidBytes, err := os.ReadFile(pidFile)
	if err != nil {
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(pidBytes)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID format in file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID value: %d", pid)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
