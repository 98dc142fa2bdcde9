// Package runlock serializes herald runs with a file lock.
//
// Synthesis and publishing both rewrite the output tree and the history
// ledger, so only one run may hold the lock at a time. The lock file lives in
// the data directory and is acquired non-blocking: a second invocation fails
// immediately instead of queueing behind the first.
package runlock

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"herald/internal/services"
)

// Acquire takes the exclusive run lock at path and returns a release
// function. A held lock yields ErrValidation so callers can surface the
// conflict without retrying.
func Acquire(path string) (func(), error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrTransient, "runlock", "acquire", "create lock directory", err)
		}
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "runlock", "acquire", "acquire run lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "runlock", "acquire", "another herald run is in progress", nil)
	}
	return func() { _ = lock.Unlock() }, nil
}
