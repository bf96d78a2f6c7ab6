package permcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/goAuthState/permission"
)

func TestMemoryLRUEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2, time.Minute)

	a := Key{UserID: 1, Role: permission.RoleAdmin}
	b := Key{UserID: 2, Role: permission.RoleEmployee}
	d := Key{UserID: 3, Role: permission.RoleKeitosan}

	require.NoError(t, c.Set(ctx, a, 1))
	require.NoError(t, c.Set(ctx, b, 2))
	_, ok := c.Get(ctx, a)
	require.True(t, ok)

	require.NoError(t, c.Set(ctx, d, 3))

	_, ok = c.Get(ctx, b)
	assert.False(t, ok, "least recently used entry must be evicted")
	m, ok := c.Get(ctx, a)
	assert.True(t, ok)
	assert.Equal(t, permission.Mask64(1), m)

	s := c.Stats()
	assert.Equal(t, 2, s.Size)
	assert.Equal(t, uint64(2), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
}

func TestMemoryTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	k := Key{UserID: 1, Role: permission.RoleAdmin}
	require.NoError(t, c.Set(ctx, k, 5))
	require.NoError(t, c.Set(ctx, Key{UserID: 2}, 6))

	now = now.Add(2 * time.Minute)
	_, ok := c.Get(ctx, k)
	assert.False(t, ok)
	assert.Equal(t, 1, c.CleanupExpired())
	assert.Equal(t, 0, c.Stats().Size)
}

func TestMemoryClearAllAndInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0, 0)
	k := Key{UserID: 9, Role: permission.RoleTantosha}
	require.NoError(t, c.Set(ctx, k, 1))
	c.Invalidate(k)
	_, ok := c.Get(ctx, k)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, k, 1))
	require.NoError(t, c.ClearAll(ctx))
	assert.Equal(t, 0, c.Stats().Size)
	assert.Equal(t, 1024, c.Stats().MaxSize)
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	c := NewRedis(client, "apc", time.Minute)
	k := Key{UserID: 4, Role: permission.RoleCoordinator}

	_, ok := c.Get(ctx, k)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, k, 0b1010))
	m, ok := c.Get(ctx, k)
	require.True(t, ok)
	assert.Equal(t, permission.Mask64(0b1010), m)
	assert.True(t, mr.Exists("apc:4:COORDINATOR"))

	require.NoError(t, mr.Set("other:key", "keep"))
	require.NoError(t, c.ClearAll(ctx))
	assert.False(t, mr.Exists("apc:4:COORDINATOR"))
	assert.True(t, mr.Exists("other:key"))

	require.NoError(t, c.Set(ctx, k, 1))
	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, k)
	assert.False(t, ok)
}

func TestRedisCacheUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	c := NewRedis(client, "", 0)
	assert.ErrorIs(t, c.ClearAll(context.Background()), ErrRedisUnavailable)
	_, ok := c.Get(context.Background(), Key{UserID: 1})
	assert.False(t, ok)
}

func TestNone(t *testing.T) {
	var c Cache = None{}
	require.NoError(t, c.Set(context.Background(), Key{}, 1))
	_, ok := c.Get(context.Background(), Key{})
	assert.False(t, ok)
}
