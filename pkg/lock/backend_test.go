package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/lock"
	"github.com/aretw0/sessiondb/pkg/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackend(t *testing.T) {
	tests := map[string]lock.Backend{
		"named":    lock.BackendNamed,
		"mysql":    lock.BackendNamed,
		"advisory": lock.BackendAdvisory,
		"Postgres": lock.BackendAdvisory,
		"pgsql":    lock.BackendAdvisory,
		"rowflag":  lock.BackendRowFlag,
		"sqlite":   lock.BackendRowFlag,
		" redis ":  lock.BackendRedis,
	}
	for in, want := range tests {
		got, ok := lock.ParseBackend(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := lock.ParseBackend("oracle")
	assert.False(t, ok)
}

func TestNew_SelectsVariant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.IsType(t, &lock.NamedLock{}, lock.New("mysql", db))
	assert.IsType(t, &lock.AdvisoryLock{}, lock.New("postgres", db))
	assert.IsType(t, &lock.RowFlagLock{}, lock.New("rowflag", db, lock.WithTable(sqlstore.SQLite, "session")))
	assert.IsType(t, &lock.Retrying{}, lock.New("rowflag", db, lock.WithRetry(time.Millisecond, 10*time.Millisecond)))
	assert.IsType(t, &lock.NamedLock{}, lock.New("named", db, lock.WithRetry(time.Millisecond, time.Second)),
		"named locks block server-side and are never wrapped")
	assert.IsType(t, lock.Unsupported{}, lock.New("redis", db), "redis without a client is unsupported")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_UnsupportedBackendNeverTouchesDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	l := lock.New("oracle", db)
	ctx := context.Background()

	assert.ErrorIs(t, l.Acquire(ctx, "abc123", 10*time.Second), domain.ErrUnsupportedBackend)
	assert.ErrorIs(t, l.Release(ctx, "abc123"), domain.ErrUnsupportedBackend)
	assert.Equal(t, "oracle", l.Backend())

	// No expectations were registered: any statement would have failed here.
	assert.NoError(t, mock.ExpectationsWereMet())
}
