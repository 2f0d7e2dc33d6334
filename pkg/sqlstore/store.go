package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/ports"
)

// DefaultTable is the session table name.
const DefaultTable = "session"

// Store implements ports.RowStore over a SQL table.
type Store struct {
	q       ports.Querier
	dialect Dialect
	table   string
}

// Option configures the Store.
type Option func(*Store)

// WithTable overrides the session table name. The name must be a plain identifier.
func WithTable(table string) Option {
	return func(s *Store) {
		s.table = table
	}
}

// New creates a Store issuing statements through q.
func New(q ports.Querier, dialect Dialect, opts ...Option) *Store {
	s := &Store{
		q:       q,
		dialect: dialect,
		table:   DefaultTable,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the session table name.
func (s *Store) Table() string {
	return s.table
}

// Dialect returns the SQL dialect of the store.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Read loads the row for key. Only a missing row yields domain.ErrSessionNotFound;
// any other failure is domain.ErrConnection or domain.ErrReadFailed.
func (s *Store) Read(ctx context.Context, key string) (*domain.Record, error) {
	query := s.dialect.Rebind(fmt.Sprintf("SELECT data, created_at FROM %s WHERE id = ?", s.table))

	rec := &domain.Record{Key: key}
	var created sql.NullTime
	err := s.q.QueryRowContext(ctx, query, key).Scan(&rec.Data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", Classify(err, domain.ErrReadFailed))
	}
	rec.CreatedAt = created.Time
	return rec, nil
}

// Insert creates the row for key, dated today.
func (s *Store) Insert(ctx context.Context, key string, data []byte) error {
	query := s.dialect.Rebind(fmt.Sprintf(
		"INSERT INTO %s (id, data, created_at) VALUES (?, ?, CURRENT_DATE)", s.table))
	return s.exec(ctx, "insert session", query, key, data)
}

// Update replaces the payload of the row for key.
func (s *Store) Update(ctx context.Context, key string, data []byte) error {
	query := s.dialect.Rebind(fmt.Sprintf("UPDATE %s SET data = ? WHERE id = ?", s.table))
	return s.exec(ctx, "update session", query, data, key)
}

// Delete removes the row for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	query := s.dialect.Rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.table))
	return s.exec(ctx, "delete session", query, key)
}

// exec runs a statement that must affect exactly one row.
func (s *Store) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, Classify(err, domain.ErrWriteFailed))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, Classify(err, domain.ErrWriteFailed))
	}
	if n == 0 {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrWriteFailed, domain.ErrSessionNotFound)
	}
	return nil
}

// Entry is a session row without its payload, for listings.
type Entry struct {
	Key       string
	CreatedAt time.Time
}

// List returns every session key with its creation date, oldest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	query := fmt.Sprintf("SELECT id, created_at FROM %s ORDER BY created_at ASC, id ASC", s.table)
	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", Classify(err, domain.ErrReadFailed))
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created sql.NullTime
		if err := rows.Scan(&e.Key, &created); err != nil {
			return nil, fmt.Errorf("list sessions: scan: %w", err)
		}
		e.CreatedAt = created.Time
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return entries, nil
}

// GC deletes every session created before the cutoff date and returns how many went.
func (s *Store) GC(ctx context.Context, before time.Time) (int64, error) {
	query := s.dialect.Rebind(fmt.Sprintf("DELETE FROM %s WHERE created_at < ?", s.table))
	res, err := s.q.ExecContext(ctx, query, before.UTC().Format(time.DateOnly))
	if err != nil {
		return 0, fmt.Errorf("gc sessions: %w", Classify(err, domain.ErrWriteFailed))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("gc sessions: rows affected: %w", err)
	}
	return n, nil
}
