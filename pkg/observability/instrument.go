package observability

import (
	"context"
	"time"

	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/ports"
)

type instrumentedLocker struct {
	next    ports.Locker
	metrics *Metrics
}

// InstrumentLocker wraps l so that every call is counted by outcome
// (domain.Kind of the returned error) and acquire time is observed.
func (m *Metrics) InstrumentLocker(l ports.Locker) ports.Locker {
	return &instrumentedLocker{next: l, metrics: m}
}

func (i *instrumentedLocker) Backend() string { return i.next.Backend() }

func (i *instrumentedLocker) Acquire(ctx context.Context, key string, timeout time.Duration) error {
	start := time.Now()
	err := i.next.Acquire(ctx, key, timeout)
	backend := i.next.Backend()
	i.metrics.LockWait.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	i.metrics.LockOps.WithLabelValues(backend, "acquire", domain.Kind(err)).Inc()
	return err
}

func (i *instrumentedLocker) Release(ctx context.Context, key string) error {
	err := i.next.Release(ctx, key)
	i.metrics.LockOps.WithLabelValues(i.next.Backend(), "release", domain.Kind(err)).Inc()
	return err
}

type instrumentedStore struct {
	next    ports.RowStore
	metrics *Metrics
}

// InstrumentStore wraps s so that every call is counted by operation and outcome.
func (m *Metrics) InstrumentStore(s ports.RowStore) ports.RowStore {
	return &instrumentedStore{next: s, metrics: m}
}

func (i *instrumentedStore) observe(op string, err error) {
	i.metrics.StoreOps.WithLabelValues(op, domain.Kind(err)).Inc()
}

func (i *instrumentedStore) Read(ctx context.Context, key string) (*domain.Record, error) {
	rec, err := i.next.Read(ctx, key)
	i.observe("read", err)
	return rec, err
}

func (i *instrumentedStore) Insert(ctx context.Context, key string, data []byte) error {
	err := i.next.Insert(ctx, key, data)
	i.observe("insert", err)
	return err
}

func (i *instrumentedStore) Update(ctx context.Context, key string, data []byte) error {
	err := i.next.Update(ctx, key, data)
	i.observe("update", err)
	return err
}

func (i *instrumentedStore) Delete(ctx context.Context, key string) error {
	err := i.next.Delete(ctx, key)
	i.observe("delete", err)
	return err
}
