package testutils

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/aretw0/sessiondb/pkg/sqlstore"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// SetupSQLite creates a SQLite database in a temporary directory with the session
// table already in place. withLockColumn adds the row-flag lock column.
// It fails the test immediately on error and closes the handle on cleanup.
func SetupSQLite(t *testing.T, withLockColumn bool) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sessions.db")
	db, _, err := sqlstore.Open("sqlite3", path)
	require.NoError(t, err, "Failed to open sqlite database")
	t.Cleanup(func() { db.Close() })

	err = sqlstore.EnsureSchema(context.Background(), db, sqlstore.SQLite, sqlstore.DefaultTable, withLockColumn)
	require.NoError(t, err, "Failed to create session table")

	return db
}

// CountRows returns how many session rows exist for key.
func CountRows(t *testing.T, db *sql.DB, key string) int {
	t.Helper()

	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM session WHERE id = ?", key).Scan(&n)
	require.NoError(t, err)
	return n
}

// LockFlag returns the row-flag lock column value for key.
func LockFlag(t *testing.T, db *sql.DB, key string) int {
	t.Helper()

	var flag int
	err := db.QueryRow(`SELECT "lock" FROM session WHERE id = ?`, key).Scan(&flag)
	require.NoError(t, err)
	return flag
}
