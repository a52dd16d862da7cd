package port

import (
	"context"
	"time"
)

// Cache is the contract for the fast key-value store used for ephemeral
// session data. Implementations must be safe for concurrent use.
//
// Besides plain string keys it exposes hash fields with atomic floating-point
// increments; the speaker-time aggregator relies on the increment being atomic
// on the backend so concurrent flushes for different speakers never lose
// updates.
type Cache interface {
	// Get fetches the value for key. Misses are reported as ("", ErrMiss) so
	// callers can tell them apart from transport errors.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. Zero or negative TTL means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes one or more keys and returns the number removed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// HIncrByFloat atomically adds delta to a hash field and returns the new
	// total. The field is created at delta if absent.
	HIncrByFloat(ctx context.Context, key, field string, delta float64) (float64, error)

	// HGetAllFloat reads a whole hash as float values. A missing key yields an
	// empty map, not an error.
	HGetAllFloat(ctx context.Context, key string) (map[string]float64, error)

	// Expire sets a TTL on key. Used to let merged analytics hashes age out
	// instead of deleting them under a possible concurrent writer.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Ping verifies connectivity with the backend.
	Ping(ctx context.Context) error

	// Close releases resources held by the cache.
	Close() error
}

// ErrMiss signals a cache miss in a typed way.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
