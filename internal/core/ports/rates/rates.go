package rates

import (
	"context"
	"time"
)

// USDBRLKey is the cache key under which the USD/BRL rate is stored.
const USDBRLKey = "usd_brl"

// Provider fetches the current USD/BRL rate from one external source.
// Implementations must return a rate > 0 or an error.
type Provider interface {
	Name() string
	FetchUSDBRL(ctx context.Context) (float64, error)
}

// Cache stores rates with a time-to-live. Get never surfaces infrastructure
// errors: a broken backend is reported as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (float64, bool)
	Set(ctx context.Context, key string, value float64, ttl time.Duration)
}
