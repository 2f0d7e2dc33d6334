package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/ports"
	"github.com/aretw0/sessiondb/pkg/sqlstore"
)

// NamedLock uses the MySQL named-lock functions.
// Locks are reentrant only on the same connection, so q should be a pinned *sql.Conn.
type NamedLock struct {
	q ports.Querier
}

// NewNamedLock creates a NamedLock running on q.
func NewNamedLock(q ports.Querier) *NamedLock {
	return &NamedLock{q: q}
}

// Backend implements ports.Locker.
func (l *NamedLock) Backend() string { return string(BackendNamed) }

// Acquire waits server-side up to timeout (whole seconds) for the lock.
func (l *NamedLock) Acquire(ctx context.Context, key string, timeout time.Duration) error {
	name := Name(key)
	seconds := int64(timeout / time.Second)
	if seconds < 0 {
		seconds = 0
	}

	// GET_LOCK: 1 acquired, 0 timed out, NULL on error.
	var locked sql.NullInt64
	err := l.q.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", name, seconds).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get_lock %s: no result: %w", name, domain.ErrLockDenied)
		}
		return fmt.Errorf("get_lock %s: %w", name, sqlstore.Classify(err, domain.ErrLockDenied))
	}
	if !locked.Valid || locked.Int64 != 1 {
		return fmt.Errorf("get_lock %s: %w", name, domain.ErrLockDenied)
	}
	return nil
}

// Release frees the lock. It fails unless the server confirms this connection held it.
func (l *NamedLock) Release(ctx context.Context, key string) error {
	name := Name(key)

	// RELEASE_LOCK: 1 released, 0 held by another connection, NULL if it did not exist.
	var released sql.NullInt64
	err := l.q.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", name).Scan(&released)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("release_lock %s: no result: %w", name, domain.ErrLockNotHeld)
		}
		return fmt.Errorf("release_lock %s: %w", name, sqlstore.Classify(err, domain.ErrLockNotHeld))
	}
	if !released.Valid || released.Int64 != 1 {
		return fmt.Errorf("release_lock %s: %w", name, domain.ErrLockNotHeld)
	}
	return nil
}
