package ports

import (
	"context"
	"time"
)

// Locker coordinates mutually exclusive access to one session across processes.
// The backend is fixed when the Locker is built. A nil error means the lock is
// held (Acquire) or was given back (Release); anything else is a failure and the
// caller must not proceed as if locked.
type Locker interface {
	// Acquire tries to take the lock for key. Only backends that block server-side
	// honour timeout; the others make a single non-blocking attempt.
	Acquire(ctx context.Context, key string, timeout time.Duration) error

	// Release gives the lock for key back.
	Release(ctx context.Context, key string) error

	// Backend names the variant, for logs and metrics.
	Backend() string
}
