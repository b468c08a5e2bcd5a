package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := NewSession(FlowServiceFirst, testNow)
	require.NoError(t, store.Create(ctx, s))
	assert.Equal(t, int64(1), s.Version)

	loaded, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, int64(1), loaded.Version)

	// The returned session is a copy; mutating it does not leak in.
	loaded.Selection.StaffID = "s1"
	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Selection.StaffID)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreSaveIncrementsVersion(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := NewSession(FlowServiceFirst, testNow)
	require.NoError(t, store.Create(ctx, s))

	s.SetStaff("s1", testNow)
	require.NoError(t, store.Save(ctx, s))
	assert.Equal(t, int64(2), s.Version)

	loaded, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "s1", loaded.Selection.StaffID)
	assert.Equal(t, int64(2), loaded.Version)
}

func TestMemoryStoreSaveConflict(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := NewSession(FlowServiceFirst, testNow)
	require.NoError(t, store.Create(ctx, s))

	first, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	second, err := store.Get(ctx, s.ID)
	require.NoError(t, err)

	first.SetStaff("s1", testNow)
	require.NoError(t, store.Save(ctx, first))

	second.SetStaff("s2", testNow)
	assert.ErrorIs(t, store.Save(ctx, second), ErrVersionConflict)

	// The losing write did not land.
	loaded, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "s1", loaded.Selection.StaffID)
}

func TestMemoryStoreSaveMissing(t *testing.T) {
	store := NewMemoryStore()
	s := NewSession(FlowServiceFirst, testNow)
	s.Version = 1
	assert.ErrorIs(t, store.Save(context.Background(), s), ErrSessionNotFound)
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := NewSession(FlowServiceFirst, testNow)
	require.NoError(t, store.Create(ctx, s))
	require.NoError(t, store.Delete(ctx, s.ID))
	require.NoError(t, store.Delete(ctx, s.ID))

	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
