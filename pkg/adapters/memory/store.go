package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/sessiondb/pkg/domain"
)

type row struct {
	data      []byte
	createdAt time.Time
	locked    bool
}

// Store implements ports.RowStore in memory, including the row-flag lock column.
// Safe for concurrent use.
type Store struct {
	rows map[string]*row
	mu   sync.RWMutex

	// Now stamps inserted rows. Defaults to time.Now.
	Now func() time.Time
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		rows: make(map[string]*row),
		Now:  time.Now,
	}
}

// Read implements ports.RowStore.
func (s *Store) Read(ctx context.Context, key string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rows[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	// Copy on read so callers can't mutate store state through the slice.
	return &domain.Record{
		Key:       key,
		Data:      append([]byte(nil), r.data...),
		CreatedAt: r.createdAt,
	}, nil
}

// Insert implements ports.RowStore.
func (s *Store) Insert(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rows[key]; exists {
		return fmt.Errorf("insert session: duplicate key: %w", domain.ErrWriteFailed)
	}
	now := s.Now().UTC()
	s.rows[key] = &row{
		data:      append([]byte(nil), data...),
		createdAt: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	return nil
}

// Update implements ports.RowStore.
func (s *Store) Update(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[key]
	if !ok {
		return fmt.Errorf("update session: %w: %w", domain.ErrWriteFailed, domain.ErrSessionNotFound)
	}
	r.data = append([]byte(nil), data...)
	return nil
}

// Delete implements ports.RowStore.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[key]; !ok {
		return fmt.Errorf("delete session: %w: %w", domain.ErrWriteFailed, domain.ErrSessionNotFound)
	}
	delete(s.rows, key)
	return nil
}

// Keys returns the stored session keys, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.rows))
	for k := range s.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// casFlag sets the lock flag of key to to if it currently equals from.
func (s *Store) casFlag(key string, from, to bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[key]
	if !ok || r.locked != from {
		return false
	}
	r.locked = to
	return true
}

// clearFlag resets the lock flag of key whatever its value. It reports false
// when key has no row.
func (s *Store) clearFlag(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[key]
	if !ok {
		return false
	}
	r.locked = false
	return true
}

// Locked reports the lock flag of key.
func (s *Store) Locked(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rows[key]
	return ok && r.locked
}
