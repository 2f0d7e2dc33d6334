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

// AdvisoryLock uses PostgreSQL session-level advisory locks.
// The lock name is reduced to an integer key, see KeyWidth for the collision caveat.
type AdvisoryLock struct {
	q     ports.Querier
	width KeyWidth
}

// NewAdvisoryLock creates an AdvisoryLock running on q.
func NewAdvisoryLock(q ports.Querier, width KeyWidth) *AdvisoryLock {
	if width != Width64 {
		width = Width32
	}
	return &AdvisoryLock{q: q, width: width}
}

// Backend implements ports.Locker.
func (l *AdvisoryLock) Backend() string { return string(BackendAdvisory) }

// Acquire makes one non-blocking attempt; timeout is ignored.
func (l *AdvisoryLock) Acquire(ctx context.Context, key string, _ time.Duration) error {
	id := AdvisoryKey(Name(key), l.width)

	var locked sql.NullBool
	err := l.q.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", id).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("pg_try_advisory_lock %d: no result: %w", id, domain.ErrLockDenied)
		}
		return fmt.Errorf("pg_try_advisory_lock %d: %w", id, sqlstore.Classify(err, domain.ErrLockDenied))
	}
	if !locked.Valid || !locked.Bool {
		return fmt.Errorf("pg_try_advisory_lock %d: %w", id, domain.ErrLockDenied)
	}
	return nil
}

// Release calls the paired unlock with the same integer key.
func (l *AdvisoryLock) Release(ctx context.Context, key string) error {
	id := AdvisoryKey(Name(key), l.width)

	var released sql.NullBool
	err := l.q.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", id).Scan(&released)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("pg_advisory_unlock %d: no result: %w", id, domain.ErrLockNotHeld)
		}
		return fmt.Errorf("pg_advisory_unlock %d: %w", id, sqlstore.Classify(err, domain.ErrLockNotHeld))
	}
	if !released.Valid || !released.Bool {
		return fmt.Errorf("pg_advisory_unlock %d: %w", id, domain.ErrLockNotHeld)
	}
	return nil
}
