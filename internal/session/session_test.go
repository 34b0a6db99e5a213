package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_DirtyTracking(t *testing.T) {
	s := New()
	assert.Len(t, s.ID(), 36)
	assert.False(t, s.Dirty())

	s.SetCartID("")
	assert.False(t, s.Dirty(), "setting the same value is not a change")

	s.SetCartID("cart-1")
	assert.True(t, s.Dirty())
	assert.Equal(t, "cart-1", s.CartID())

	s.MarkClean()
	s.SetLastOrderID("order-1")
	assert.True(t, s.Dirty())
	assert.Equal(t, Data{CartID: "cart-1", LastOrderID: "order-1"}, s.Data())
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := New()
	s.SetCartID("cart-1")
	require.NoError(t, store.Save(ctx, s))

	loaded, err := store.Load(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, "cart-1", loaded.CartID())
	assert.False(t, loaded.Dirty())

	require.NoError(t, store.Delete(ctx, s.ID()))
	_, err = store.Load(ctx, s.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	s := New()
	require.NoError(t, store.Save(ctx, s))

	now = now.Add(2 * time.Minute)
	_, err := store.Load(ctx, s.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, store.Len())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	store := NewRedisStore(client, time.Minute)
	s := New()
	s.SetCartID("cart-1")
	s.SetLastOrderID("order-1")
	require.NoError(t, store.Save(ctx, s))

	loaded, err := store.Load(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, s.Data(), loaded.Data())

	ttl, err := client.TTL(ctx, "storefront:session:"+s.ID()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, s.ID()))
	_, err = store.Load(ctx, s.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}
