// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrCacheMiss indicates the requested key was not found in cache
var ErrCacheMiss = errors.New("cache miss")

// Store is the backend contract for the read-model cache. Production uses
// RedisStore; MemoryStore serves development and tests. ForgetPrefix exists
// because listing entries are keyed by parameter digests and can only be
// evicted in bulk by their operation prefix.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Forget(ctx context.Context, key string) error
	ForgetPrefix(ctx context.Context, prefix string) error
}

// Remember returns the cached value for key, computing and storing it on a
// miss. A failed computation is returned as-is and never cached. Store
// failures degrade to recomputation rather than surfacing to the caller: the
// underlying queries are read-only and idempotent, so losing a cache round
// trip only wastes work.
func Remember[T any](ctx context.Context, store Store, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	var zero T

	data, err := store.Get(ctx, key)
	switch {
	case err == nil:
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			cacheHits.Inc()
			return value, nil
		}
		// Corrupted entry. Drop it and recompute.
		_ = store.Forget(ctx, key)
	case errors.Is(err, ErrCacheMiss):
		cacheMisses.Inc()
	default:
		cacheErrors.WithLabelValues("get").Inc()
		logrus.WithError(err).WithField("key", key).Warn("Cache read failed, falling back to store")
	}

	value, err := compute()
	if err != nil {
		return zero, err
	}

	if data, err := json.Marshal(value); err == nil {
		if err := store.Set(ctx, key, data, ttl); err != nil {
			cacheErrors.WithLabelValues("set").Inc()
			logrus.WithError(err).WithField("key", key).Warn("Failed to cache computed value")
		}
	}

	return value, nil
}
