// Package lock provides the advisory lock taken by mutating evm operations.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// FileName is the lock file created under the evm home.
	FileName = "evm.lock"

	// StaleThreshold is the age after which a lock is assumed abandoned.
	StaleThreshold = 10 * time.Minute
)

// ErrLockExists indicates another evm process holds the lock.
var ErrLockExists = errors.New("evm lock exists: another operation may be in progress")

// Lock is a held advisory lock.
type Lock struct {
	path string
	file *os.File
}

// Acquire takes the lock in dir. It fails with ErrLockExists if a fresh
// lock is already held; a lock older than StaleThreshold is replaced once.
func Acquire(ctx context.Context, dir string) (*Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lockPath := filepath.Join(dir, FileName)

	file, err := create(lockPath)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if !isStale(lockPath) {
			return nil, fmt.Errorf("%w (%s)", ErrLockExists, lockPath)
		}
		os.Remove(lockPath)
		if file, err = create(lockPath); err != nil {
			return nil, fmt.Errorf("%w (%s)", ErrLockExists, lockPath)
		}
	}

	data := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(data); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock data: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("sync lock file: %w", err)
	}

	return &Lock{path: lockPath, file: file}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release removes the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if l.path == "" {
		return nil
	}
	path := l.path
	l.path = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

func create(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
}

func isStale(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) > StaleThreshold
}
