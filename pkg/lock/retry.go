package lock

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/ports"
)

// Retrying polls a non-blocking locker until it succeeds or the timeout passes,
// doubling the wait between attempts up to max. Only denials are retried.
type Retrying struct {
	next ports.Locker
	base time.Duration
	max  time.Duration
}

// NewRetrying wraps next with bounded retry.
func NewRetrying(next ports.Locker, base, max time.Duration) *Retrying {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if max < base {
		max = base
	}
	return &Retrying{next: next, base: base, max: max}
}

// Backend implements ports.Locker.
func (r *Retrying) Backend() string { return r.next.Backend() }

// Acquire implements ports.Locker.
func (r *Retrying) Acquire(ctx context.Context, key string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	delay := r.base

	for {
		err := r.next.Acquire(ctx, key, timeout)
		if err == nil || !errors.Is(err, domain.ErrLockDenied) {
			return err
		}
		if time.Now().Add(delay).After(deadline) {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		delay *= 2
		if delay > r.max {
			delay = r.max
		}
	}
}

// Release implements ports.Locker.
func (r *Retrying) Release(ctx context.Context, key string) error {
	return r.next.Release(ctx, key)
}
