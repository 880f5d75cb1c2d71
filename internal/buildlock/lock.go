// Package buildlock serializes builds against one deliverables root with an
// advisory file lock.
package buildlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"reelbuild/internal/services"
)

// ErrLocked reports that another build holds the lock.
var ErrLocked = errors.New("build lock held by another process")

// Lock is an acquired build lock.
type Lock struct {
	path string
	fl   *flock.Flock
}

// Acquire takes the lock at path without blocking.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, services.WithHint(
			services.Wrap(services.ErrPrecondition, "", "", "another reelbuild build is running ("+path+")", ErrLocked),
			"wait for the other build to finish",
		)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks. Calling it more than once is safe.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
