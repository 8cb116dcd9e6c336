package state

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 15*time.Minute)
	key := Key{ChatID: -100123, UserID: 42}

	p := &Pending{
		Flow:     FlowGrouping,
		OwnerID:  42,
		Group:    "G61",
		ThreadID: 281,
		Options:  []Option{{ID: "1", Label: "Abebe Kebede"}, {ID: "2", Label: "Sara Ali"}},
		Selected: []string{"2"},
	}
	require.NoError(t, store.Set(ctx, key, p))
	assert.True(t, mr.Exists("headsup:pending:-100123:42"))
	assert.Equal(t, 15*time.Minute, mr.TTL("headsup:pending:-100123:42"))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, FlowGrouping, got.Flow)
	assert.Equal(t, 281, got.ThreadID)
	assert.Equal(t, p.Options, got.Options)
	assert.True(t, got.IsSelected("2"))

	other, err := store.Get(ctx, Key{ChatID: -100123, UserID: 43})
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)
	key := Key{ChatID: 1, UserID: 1}

	require.NoError(t, store.Set(ctx, key, &Pending{Flow: FlowAttendee, OwnerID: 1}))
	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)
	key := Key{ChatID: 1, UserID: 1}

	require.NoError(t, store.Set(ctx, key, &Pending{Flow: FlowAbsentee, OwnerID: 1}))
	require.NoError(t, store.Delete(ctx, key))
	assert.False(t, mr.Exists(redisKey(key)))
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	mr.Close()

	_, err := store.Get(context.Background(), Key{ChatID: 1, UserID: 1})
	assert.Error(t, err)
}
