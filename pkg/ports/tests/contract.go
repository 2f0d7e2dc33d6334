package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/ports"
)

// RowStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.RowStore.
// The store must be empty when passed in.
func RowStoreContractTest(t *testing.T, store ports.RowStore) {
	t.Helper()
	ctx := context.Background()

	// 1. Read missing row
	t.Run("Read_NotFound", func(t *testing.T) {
		_, err := store.Read(ctx, "missing")
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	// 2. Insert then Read
	t.Run("Insert_Read", func(t *testing.T) {
		if err := store.Insert(ctx, "k1", []byte("cipher-1")); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		rec, err := store.Read(ctx, "k1")
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if rec.Key != "k1" || string(rec.Data) != "cipher-1" {
			t.Errorf("unexpected record %+v", rec)
		}
		if rec.CreatedAt.IsZero() {
			t.Error("created_at not set")
		}
	})

	// 3. Duplicate insert is a failed write
	t.Run("Insert_Duplicate", func(t *testing.T) {
		err := store.Insert(ctx, "k1", []byte("other"))
		if !errors.Is(err, domain.ErrWriteFailed) {
			t.Errorf("expected ErrWriteFailed, got %v", err)
		}
	})

	// 4. Update
	t.Run("Update", func(t *testing.T) {
		if err := store.Update(ctx, "k1", []byte("cipher-2")); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		rec, err := store.Read(ctx, "k1")
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if string(rec.Data) != "cipher-2" {
			t.Errorf("data = %q, want cipher-2", rec.Data)
		}
	})

	// 5. Update missing row
	t.Run("Update_Missing", func(t *testing.T) {
		err := store.Update(ctx, "missing", []byte("x"))
		if !errors.Is(err, domain.ErrWriteFailed) {
			t.Errorf("expected ErrWriteFailed, got %v", err)
		}
	})

	// 6. Delete, then delete again
	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "k1"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Read(ctx, "k1"); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
		}
		err := store.Delete(ctx, "k1")
		if !errors.Is(err, domain.ErrWriteFailed) || !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrWriteFailed+ErrSessionNotFound on second delete, got %v", err)
		}
	})
}
