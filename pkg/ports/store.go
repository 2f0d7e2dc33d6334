package ports

import (
	"context"

	"github.com/aretw0/sessiondb/pkg/domain"
)

// RowStore is typed CRUD over the session table.
// Every method is a single statement touching a single row. There is no upsert:
// callers choose Insert or Update from the lifecycle state.
type RowStore interface {
	// Read returns the row for key, or domain.ErrSessionNotFound.
	Read(ctx context.Context, key string) (*domain.Record, error)

	// Insert creates the row for key.
	Insert(ctx context.Context, key string, data []byte) error

	// Update replaces the payload of an existing row.
	// Zero affected rows is reported as domain.ErrWriteFailed.
	Update(ctx context.Context, key string, data []byte) error

	// Delete removes the row for key.
	// Zero affected rows is reported as domain.ErrWriteFailed wrapping domain.ErrSessionNotFound.
	Delete(ctx context.Context, key string) error
}
