package permcache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goAuthState/permission"
)

// ErrRedisUnavailable wraps Redis failures on Set and ClearAll.
var ErrRedisUnavailable = errors.New("permission cache redis unavailable")

const scanBatch = 256

// Redis keeps masks as decimal strings under prefix-namespaced keys that
// expire after ttl.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = "apc"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(k Key) string {
	return r.prefix + ":" + k.String()
}

func (r *Redis) Get(ctx context.Context, key Key) (permission.Mask64, bool) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		return 0, false
	}
	raw, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return permission.Mask64(raw), true
}

func (r *Redis) Set(ctx context.Context, key Key, mask permission.Mask64) error {
	err := r.client.Set(ctx, r.key(key), strconv.FormatUint(mask.Raw(), 10), r.ttl).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// ClearAll deletes every key under the prefix. Keys written while the scan
// runs may survive; they expire after the TTL.
func (r *Redis) ClearAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+":*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
