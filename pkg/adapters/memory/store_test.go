package memory_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aretw0/sessiondb/pkg/adapters/memory"
	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	tests.RowStoreContractTest(t, memory.NewStore())
}

func TestMemoryStore_ReadIsACopy(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, "k", []byte("abc")))

	rec, err := store.Read(ctx, "k")
	require.NoError(t, err)
	rec.Data[0] = 'X'

	again, err := store.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again.Data))
}

func TestMemoryStore_CreatedAtIsADate(t *testing.T) {
	store := memory.NewStore()
	store.Now = func() time.Time { return time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC) }
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, "k", nil))

	rec, err := store.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), rec.CreatedAt)
	assert.Equal(t, []string{"k"}, store.Keys())
}

func TestMemoryLocker(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, "k", nil))
	l := memory.NewLocker(store)

	require.NoError(t, l.Acquire(ctx, "k", time.Second))
	assert.True(t, store.Locked("k"))
	assert.ErrorIs(t, l.Acquire(ctx, "k", time.Second), domain.ErrLockDenied)
	require.NoError(t, l.Release(ctx, "k"))
	assert.False(t, store.Locked("k"))
	require.NoError(t, l.Release(ctx, "k"), "release resets an already clear flag")
	assert.False(t, store.Locked("k"))
	assert.ErrorIs(t, l.Release(ctx, "missing"), domain.ErrLockNotHeld)
	assert.ErrorIs(t, l.Acquire(ctx, "missing", time.Second), domain.ErrLockDenied)
}

func TestCookieJar(t *testing.T) {
	jar := memory.NewCookieJar(map[string]string{"sessid": "abc"})

	v, ok := jar.Get("sessid")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	jar.Set(&http.Cookie{Name: "sessid", Value: "new", HttpOnly: true})
	c, ok := jar.Response("sessid")
	require.True(t, ok)
	assert.Equal(t, "new", c.Value)
	assert.False(t, jar.Cleared("sessid"))

	jar.Clear("sessid")
	assert.True(t, jar.Cleared("sessid"))
}
