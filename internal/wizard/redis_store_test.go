package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Minute), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	s := NewSession(FlowStaffFirst, testNow)
	s.SetServices([]Service{{ID: "cut", Name: "Haircut", Price: 30, Duration: 30}}, testNow)
	require.NoError(t, store.Create(ctx, s))
	assert.Equal(t, int64(1), s.Version)

	loaded, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, FlowStaffFirst, loaded.Selection.Flow)
	require.Len(t, loaded.Selection.Services, 1)
	assert.Equal(t, "Haircut", loaded.Selection.Services[0].Name)
}

func TestRedisStoreGetMissing(t *testing.T) {
	store, _ := newTestRedisStore(t)
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreSaveConflict(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	s := NewSession(FlowServiceFirst, testNow)
	require.NoError(t, store.Create(ctx, s))

	first, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	second, err := store.Get(ctx, s.ID)
	require.NoError(t, err)

	first.SetStaff("s1", testNow)
	require.NoError(t, store.Save(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	second.SetStaff("s2", testNow)
	err = store.Save(ctx, second)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, int64(1), second.Version, "failed save leaves the caller's version untouched")

	loaded, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "s1", loaded.Selection.StaffID)
}

func TestRedisStoreSaveExpired(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	s := NewSession(FlowServiceFirst, testNow)
	require.NoError(t, store.Create(ctx, s))

	mr.FastForward(2 * time.Minute)

	assert.ErrorIs(t, store.Save(ctx, s), ErrSessionNotFound)
	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreSaveRefreshesTTL(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	s := NewSession(FlowServiceFirst, testNow)
	require.NoError(t, store.Create(ctx, s))

	mr.FastForward(45 * time.Second)
	require.NoError(t, store.Save(ctx, s))

	// Past the original expiry, but within a minute of the save.
	mr.FastForward(45 * time.Second)
	_, err := store.Get(ctx, s.ID)
	assert.NoError(t, err, "an active session never expires mid-flow")
}

func TestRedisStoreDeleteIdempotent(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	s := NewSession(FlowServiceFirst, testNow)
	require.NoError(t, store.Create(ctx, s))
	require.NoError(t, store.Delete(ctx, s.ID))
	require.NoError(t, store.Delete(ctx, s.ID))
}
