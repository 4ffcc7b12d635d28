package task

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrLocked is returned when the backing file is owned by another live process.
var ErrLocked = errors.New("task file is locked")

// FileLock is a PID lock file guarding exclusive ownership of a task file.
type FileLock struct {
	path string
}

// NewFileLock creates a lock for the task file at taskPath. The lock file
// lives next to it as <taskPath>.lock.
func NewFileLock(taskPath string) *FileLock {
	return &FileLock{
		path: taskPath + ".lock",
	}
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// Acquire takes the lock. Stale locks left by dead processes are reclaimed.
func (l *FileLock) Acquire() error {
	err := l.create()
	if err == nil {
		return nil
	}
	if !os.IsExist(err) {
		return fmt.Errorf("failed to create lock file: %w", err)
	}

	pid, ok, err := l.readPID()
	if err != nil {
		return err
	}
	if ok && processExists(pid) {
		return fmt.Errorf("%w (PID %d)", ErrLocked, pid)
	}

	// Dead owner or garbage contents
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale lock file: %w", err)
	}

	// Only one retry to avoid looping against a competing process
	if err := l.create(); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: acquired by another process during retry", ErrLocked)
		}
		return fmt.Errorf("failed to create lock file on retry: %w", err)
	}
	return nil
}

// create writes our PID into a freshly created lock file.
func (l *FileLock) create() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	_, writeErr := fmt.Fprintf(f, "%d", os.Getpid())
	f.Close()
	if writeErr != nil {
		os.Remove(l.path)
		return fmt.Errorf("failed to write lock file: %w", writeErr)
	}
	return nil
}

// readPID returns the PID stored in the lock file. ok is false when the
// contents are not a valid PID.
func (l *FileLock) readPID() (pid int, ok bool, err error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read existing lock file: %w", err)
	}

	pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
	if parseErr != nil {
		return 0, false, nil
	}
	return pid, true, nil
}

// Release removes the lock file. Releasing an absent lock is not an error.
func (l *FileLock) Release() error {
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// IsLocked reports whether the lock is held by a live process.
// Stale or invalid lock files are removed.
func (l *FileLock) IsLocked() (bool, error) {
	if _, err := os.Stat(l.path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat lock file: %w", err)
	}

	pid, ok, err := l.readPID()
	if err != nil {
		return false, err
	}
	if ok && processExists(pid) {
		return true, nil
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to remove stale lock file: %w", err)
	}
	return false, nil
}

// processExists checks if a process with the given PID is running.
// Uses kill with signal 0, which checks for process existence without sending a signal.
func processExists(pid int) bool {
	if pid == os.Getpid() {
		return true
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil
}
