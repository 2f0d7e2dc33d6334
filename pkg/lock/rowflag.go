package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/ports"
	"github.com/aretw0/sessiondb/pkg/sqlstore"
)

// RowFlagLock implements mutual exclusion with a compare-and-swap on the session
// row's lock column. The row must exist, so a missing session cannot be locked.
type RowFlagLock struct {
	q       ports.Querier
	acquire string
	release string
}

// NewRowFlagLock creates a RowFlagLock on the given session table.
func NewRowFlagLock(q ports.Querier, dialect sqlstore.Dialect, table string) *RowFlagLock {
	col := dialect.Quote("lock")
	return &RowFlagLock{
		q:       q,
		acquire: dialect.Rebind(fmt.Sprintf("UPDATE %s SET %s = 1 WHERE id = ? AND %s = 0", table, col, col)),
		release: dialect.Rebind(fmt.Sprintf("UPDATE %s SET %s = 0 WHERE id = ?", table, col)),
	}
}

// Backend implements ports.Locker.
func (l *RowFlagLock) Backend() string { return string(BackendRowFlag) }

// Acquire flips the flag from 0 to 1. It succeeds iff exactly one row changed.
// timeout is ignored.
func (l *RowFlagLock) Acquire(ctx context.Context, key string, _ time.Duration) error {
	n, err := l.exec(ctx, l.acquire, key)
	if err != nil {
		return fmt.Errorf("row flag acquire: %w", sqlstore.Classify(err, domain.ErrLockDenied))
	}
	if n != 1 {
		return fmt.Errorf("row flag acquire: %d rows: %w", n, domain.ErrLockDenied)
	}
	return nil
}

// Release resets the flag to 0 whoever set it.
func (l *RowFlagLock) Release(ctx context.Context, key string) error {
	n, err := l.exec(ctx, l.release, key)
	if err != nil {
		return fmt.Errorf("row flag release: %w", sqlstore.Classify(err, domain.ErrLockNotHeld))
	}
	if n != 1 {
		return fmt.Errorf("row flag release: %d rows: %w", n, domain.ErrLockNotHeld)
	}
	return nil
}

func (l *RowFlagLock) exec(ctx context.Context, query, key string) (int64, error) {
	res, err := l.q.ExecContext(ctx, query, key)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
