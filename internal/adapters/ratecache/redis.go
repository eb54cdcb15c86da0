package ratecache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps rates in Redis as plain decimal strings with a native TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects lazily to the Redis instance at url. timeout bounds
// dialing and every read and write.
func NewRedisStore(url string, timeout time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if timeout > 0 {
		opt.DialTimeout = timeout
		opt.ReadTimeout = timeout
		opt.WriteTimeout = timeout
	}
	opt.MaxRetries = 0
	return NewRedisStoreWithClient(redis.NewClient(opt), "rates:"), nil
}

// NewRedisStoreWithClient wraps an existing client. Keys are stored as prefix+key.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(key string) string {
	return r.prefix + key
}

// Ping checks that Redis is reachable.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns the stored value. A missing key is (0, false, nil).
func (r *RedisStore) Get(ctx context.Context, key string) (float64, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("malformed cached value %q: %w", val, err)
	}
	return f, true, nil
}

// Set stores value with the given expiry.
func (r *RedisStore) Set(ctx context.Context, key string, value float64, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), strconv.FormatFloat(value, 'f', -1, 64), ttl).Err()
}

// Close releases the underlying connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
