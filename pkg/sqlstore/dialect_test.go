package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"database/sql/driver"

	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestDialect_Rebind(t *testing.T) {
	q := "UPDATE session SET data = ? WHERE id = ?"
	assert.Equal(t, q, SQLite.Rebind(q))
	assert.Equal(t, q, MySQL.Rebind(q))
	assert.Equal(t, "UPDATE session SET data = $1 WHERE id = $2", Postgres.Rebind(q))
}

func TestDialectFor(t *testing.T) {
	for driverName, want := range map[string]Dialect{
		"sqlite3":  SQLite,
		"mysql":    MySQL,
		"postgres": Postgres,
		"pgx":      Postgres,
	} {
		got, err := DialectFor(driverName)
		assert.NoError(t, err)
		assert.Equal(t, want, got, driverName)
	}
}

func TestSchema_LockColumn(t *testing.T) {
	assert.NotContains(t, Schema(SQLite, "session", false), "lock")
	assert.Contains(t, Schema(SQLite, "session", true), `"lock" INTEGER NOT NULL DEFAULT 0`)
	assert.Contains(t, Schema(MySQL, "session", true), "`lock`")
	assert.True(t, strings.Contains(Schema(Postgres, "session", false), "BYTEA"))
}

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil, domain.ErrWriteFailed))

	err := Classify(fmt.Errorf("exec: %w", driver.ErrBadConn), domain.ErrWriteFailed)
	assert.ErrorIs(t, err, domain.ErrConnection)
	assert.NotErrorIs(t, err, domain.ErrWriteFailed)

	err = Classify(context.DeadlineExceeded, domain.ErrLockDenied)
	assert.ErrorIs(t, err, domain.ErrConnection)

	err = Classify(errors.New("UNIQUE constraint failed"), domain.ErrWriteFailed)
	assert.ErrorIs(t, err, domain.ErrWriteFailed)
}
