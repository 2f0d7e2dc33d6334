package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/sessiondb/pkg/domain"
)

// Unsupported is the locker of an unrecognized backend. Both operations fail
// without contacting anything, which leaves sessions for that configuration
// unlocked. This is not turned into a hard startup failure.
type Unsupported struct {
	Name string
}

// Backend implements ports.Locker.
func (u Unsupported) Backend() string { return u.Name }

// Acquire always fails with domain.ErrUnsupportedBackend.
func (u Unsupported) Acquire(context.Context, string, time.Duration) error {
	return fmt.Errorf("acquire: %q: %w", u.Name, domain.ErrUnsupportedBackend)
}

// Release always fails with domain.ErrUnsupportedBackend.
func (u Unsupported) Release(context.Context, string) error {
	return fmt.Errorf("release: %q: %w", u.Name, domain.ErrUnsupportedBackend)
}
