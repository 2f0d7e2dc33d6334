package sqlstore

import (
	"database/sql"
	"fmt"
)

// Open opens and verifies a database handle for the given driver.
// The driver must already be registered (see cmd/sessiondb for the blank imports).
//
// SQLite handles are limited to one connection and get the pragmas listed in the
// package documentation, so SQLITE_BUSY does not surface as a failed write.
func Open(driver, dsn string) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}

	// Pragmas are per connection, so SQLite gets exactly one.
	if dialect == SQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, "", fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	return db, dialect, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
