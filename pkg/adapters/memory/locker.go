package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/sessiondb/pkg/domain"
)

// Locker is the row-flag lock over a memory Store.
type Locker struct {
	store *Store
}

// NewLocker creates a Locker flagging rows of store.
func NewLocker(store *Store) *Locker {
	return &Locker{store: store}
}

// Backend implements ports.Locker.
func (l *Locker) Backend() string { return "memory" }

// Acquire implements ports.Locker with a single compare-and-swap.
func (l *Locker) Acquire(ctx context.Context, key string, _ time.Duration) error {
	if !l.store.casFlag(key, false, true) {
		return fmt.Errorf("memory acquire: %w", domain.ErrLockDenied)
	}
	return nil
}

// Release implements ports.Locker. The flag is reset unconditionally; only a
// missing row fails.
func (l *Locker) Release(ctx context.Context, key string) error {
	if !l.store.clearFlag(key) {
		return fmt.Errorf("memory release: %w", domain.ErrLockNotHeld)
	}
	return nil
}
