package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, cfg), mr
}

func TestLimiterBlocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, Config{MaxAttempts: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Check(ctx, "Alice@example.com", ""))
		require.NoError(t, l.RecordFailure(ctx, "Alice@example.com", ""))
	}
	assert.ErrorIs(t, l.Check(ctx, "alice@example.com", ""), ErrRateLimited)

	n, err := l.Attempts(ctx, " ALICE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	mr.FastForward(time.Minute + time.Second)
	assert.NoError(t, l.Check(ctx, "alice@example.com", ""))
}

func TestLimiterResetClearsCounters(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t, Config{MaxAttempts: 1, Cooldown: time.Minute, EnableIPThrottle: true})

	require.NoError(t, l.RecordFailure(ctx, "bob", "10.0.0.1"))
	assert.ErrorIs(t, l.Check(ctx, "bob", "10.0.0.1"), ErrRateLimited)
	assert.ErrorIs(t, l.Check(ctx, "carol", "10.0.0.1"), ErrRateLimited)

	require.NoError(t, l.Reset(ctx, "bob", "10.0.0.1"))
	assert.NoError(t, l.Check(ctx, "bob", "10.0.0.1"))
}

func TestLimiterRedisDown(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, Config{MaxAttempts: 1, Cooldown: time.Minute})
	mr.Close()

	assert.ErrorIs(t, l.Check(ctx, "bob", ""), ErrRedisUnavailable)
	assert.ErrorIs(t, l.RecordFailure(ctx, "bob", ""), ErrRedisUnavailable)
}
