package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

// LockFile is an advisory exclusive lock held for the life of a process.
// The kernel drops it when the process exits, so a crashed run never leaves a stale lock.
type LockFile struct {
	path string
	fl   *flock.Flock
}

// Acquire takes the lock at path without blocking. It fails when another
// pixnix process already holds it.
func Acquire(path string) (*LockFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !ok {
		msg := "pixnix is already running"
		if pid := readPID(path); pid > 0 {
			msg = fmt.Sprintf("pixnix is already running (PID %d)", pid)
		}
		return nil, fmt.Errorf("%s\nClose the other instance and retry (lock: %s)", msg, path)
	}
	// PID is informational only; the flock is what excludes.
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		_ = fl.Unlock()
		return nil, fmt.Errorf("failed to write PID to lock file: %w", err)
	}
	return &LockFile{path: path, fl: fl}, nil
}

// DefaultPath is the lock location under the data root.
func DefaultPath(dataRoot string) string {
	return filepath.Join(dataRoot, "pixnix.lock")
}

func readPID(path string) int {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0
	}
	return pid
}

// Release unlocks and removes the lock file.
func (l *LockFile) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// Path returns the path to the lock file
func (l *LockFile) Path() string {
	return l.path
}
