// Package flock serializes access to checkpoint files between adpilot
// processes with advisory, non-blocking file locks.
//
// Usage:
//
//	l, err := flock.Acquire(ctx, path, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer l.Release()
//
// Import rules:
//   - CAN import: internal/errors, std lib
//   - MUST NOT import: domain or service packages
package flock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-retry"

	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// PollInterval is the delay between lock attempts.
const PollInterval = 50 * time.Millisecond

const lockPerm = 0o600

// errBusy is returned by a single attempt when another holder has the lock.
var errBusy = errors.New("lock is held")

// Lock is a held exclusive lock on a lock file.
type Lock struct {
	f *os.File
}

// Acquire creates the lock file at path if needed and polls until an
// exclusive lock is granted. It fails with ErrLockTimeout once timeout
// elapses, or with the context error when ctx ends first.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockPerm) //#nosec G302,G304 -- lock path is built by the caller from a validated id
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	backoff := retry.WithMaxDuration(timeout, retry.NewConstant(PollInterval))
	err = retry.Do(ctx, backoff, func(_ context.Context) error {
		if lockErr := exclusive(f.Fd()); lockErr != nil {
			return retry.RetryableError(errBusy)
		}
		return nil
	})
	if err == nil {
		return &Lock{f: f}, nil
	}

	_ = f.Close()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return nil, fmt.Errorf("%w: %s", aperrors.ErrLockTimeout, path)
}

// Release unlocks and closes the lock file. Releasing a nil lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil
	if err := unlock(f.Fd()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return f.Close()
}
