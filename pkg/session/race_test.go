package session_test

import (
	"context"
	"testing"

	"github.com/aretw0/sessiondb/internal/testutils"
	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/keys"
	"github.com/aretw0/sessiondb/pkg/lock"
	"github.com/aretw0/sessiondb/pkg/session"
	"github.com/aretw0/sessiondb/pkg/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two requests resume the same session, each changes a different field and
// both save. The lock only covers the read in Resume, so the stored row ends up
// as the second writer's snapshot and the first writer's change is lost.
func TestLifecycle_LastWriterWins(t *testing.T) {
	db := testutils.SetupSQLite(t, true)
	store := sqlstore.New(db, sqlstore.SQLite)
	locker := lock.New("rowflag", db, lock.WithTable(sqlstore.SQLite, sqlstore.DefaultTable))
	c := newCodec(t)
	ctx := context.Background()

	seed := session.New(store, locker, c, session.WithKeyGenerator(keys.Static("shared")))
	jar := memoryJar()
	require.NoError(t, seed.Start(ctx, jar, false))
	seed.Set("theme", "dark")
	require.NoError(t, seed.End(ctx))

	first := session.New(store, locker, c)
	second := session.New(store, locker, c)
	require.NoError(t, first.Resume(ctx, "shared"))
	require.NoError(t, second.Resume(ctx, "shared"))
	require.Equal(t, domain.StateActive, first.State())
	require.Equal(t, domain.StateActive, second.State())

	first.Set("cart", "book")
	second.Set("lang", "pt")

	require.NoError(t, first.Save(ctx))
	require.NoError(t, second.Save(ctx))

	check := session.New(store, locker, c)
	require.NoError(t, check.Resume(ctx, "shared"))
	assert.Equal(t, map[string]any{"theme": "dark", "lang": "pt"}, check.Data())
	_, merged := check.Get("cart")
	assert.False(t, merged, "the first writer's change is overwritten")
	assert.Equal(t, 1, testutils.CountRows(t, db, "shared"))
}
