package ratecache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/vehicle_registry_app/internal/core/ports/rates"
	"github.com/SscSPs/vehicle_registry_app/internal/metrics"
)

const (
	backendRedis  = "redis"
	backendMemory = "memory"
)

// Options configure a Cache. Zero values fall back to sensible defaults.
type Options struct {
	// RetryInterval is how long Redis is bypassed after it fails.
	RetryInterval time.Duration
	Logger        *slog.Logger
	Metrics       *metrics.ExchangeMetrics
	Now           func() time.Time
}

// Cache is a rate cache backed by Redis when it is available and by a
// process-local MemoryStore otherwise. Redis failures are logged and counted
// but never returned: the operation is served from memory instead and Redis is
// left alone until the retry interval has passed.
type Cache struct {
	redis  *RedisStore
	memory *MemoryStore

	retryInterval time.Duration
	logger        *slog.Logger
	metrics       *metrics.ExchangeMetrics
	now           func() time.Time

	mu            sync.Mutex
	degradedUntil time.Time
}

var _ rates.Cache = (*Cache)(nil)

// New builds a Cache. redisStore may be nil for a memory-only cache.
func New(redisStore *RedisStore, opts Options) *Cache {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 30 * time.Second
	}
	return &Cache{
		redis:         redisStore,
		memory:        NewMemoryStore(opts.Now),
		retryInterval: opts.RetryInterval,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		now:           opts.Now,
	}
}

// Connect builds a Cache for redisURL. An empty URL gives a memory-only cache.
// An invalid URL is logged and also gives a memory-only cache; an unreachable
// server starts the cache degraded so Redis is retried later.
func Connect(ctx context.Context, redisURL string, timeout time.Duration, opts Options) *Cache {
	if redisURL == "" {
		return New(nil, opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := NewRedisStore(redisURL, timeout)
	if err != nil {
		logger.Warn("Redis disabled, using in-memory rate cache", slog.String("error", err.Error()))
		opts.Metrics.RecordCacheError(backendRedis, "connect")
		return New(nil, opts)
	}

	c := New(store, opts)
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		c.markDegraded("ping", err)
	} else {
		logger.Info("Redis rate cache connected")
	}
	return c
}

// Get returns the cached value for key, if any. It never fails.
func (c *Cache) Get(ctx context.Context, key string) (float64, bool) {
	if c.redisUsable() {
		val, ok, err := c.redis.Get(ctx, key)
		if err == nil {
			c.metrics.RecordCacheLookup(backendRedis, ok)
			if ok {
				return val, true
			}
		} else {
			c.redisFailed(ctx, "get", err)
		}
	}

	val, ok := c.memory.Get(key)
	c.metrics.RecordCacheLookup(backendMemory, ok)
	return val, ok
}

// Set stores value under key for ttl. It never fails.
func (c *Cache) Set(ctx context.Context, key string, value float64, ttl time.Duration) {
	if c.redisUsable() {
		err := c.redis.Set(ctx, key, value, ttl)
		if err == nil {
			return
		}
		c.redisFailed(ctx, "set", err)
	}
	c.memory.Set(key, value, ttl)
}

// Degraded reports whether Redis is configured but currently bypassed.
func (c *Cache) Degraded() bool {
	if c.redis == nil {
		return false
	}
	return !c.redisUsable()
}

// Close releases the Redis connection, if any.
func (c *Cache) Close() error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Close()
}

func (c *Cache) redisUsable() bool {
	if c.redis == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.now().Before(c.degradedUntil)
}

// redisFailed degrades the cache unless the failure came from the caller's
// own context being canceled or timing out, which says nothing about Redis.
func (c *Cache) redisFailed(ctx context.Context, operation string, err error) {
	if ctx.Err() != nil {
		c.logger.Debug("Redis rate cache call abandoned by caller",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		return
	}
	c.markDegraded(operation, err)
}

func (c *Cache) markDegraded(operation string, err error) {
	c.mu.Lock()
	c.degradedUntil = c.now().Add(c.retryInterval)
	c.mu.Unlock()

	c.metrics.RecordCacheError(backendRedis, operation)
	c.logger.Warn("Redis rate cache unavailable, falling back to memory",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
		slog.Duration("retry_in", c.retryInterval),
	)
}
