package cache

import (
	"context"
	"time"
)

// Cache defines the unified interface for cache operations.
// This abstraction allows switching between different cache implementations
// (Redis, local memory) without changing business logic.
type Cache interface {
	// Get retrieves the value for the given key.
	// A missing key returns an empty string and no error.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a key-value pair with optional TTL
	// If ttl is 0, the key will not expire
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// SetNX sets the value only if the key does not exist (atomic operation)
	// Returns true if the key was set, false if it already existed
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)

	// Del deletes one or more keys
	Del(ctx context.Context, keys ...string) error

	// Exists checks if one or more keys exist
	// Returns the number of keys that exist
	Exists(ctx context.Context, keys ...string) (int64, error)

	// Expire sets a timeout on a key
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// TTL returns the remaining time to live of a key
	// Returns -1 if the key exists but has no expiration
	// Returns -2 if the key does not exist
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Incr increments the integer value of a key by 1
	Incr(ctx context.Context, key string) (int64, error)

	// TryLock attempts to acquire a distributed lock
	// Returns true if lock was acquired, false otherwise
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Unlock releases a distributed lock
	Unlock(ctx context.Context, key string) error

	// Ping verifies the cache connection is alive
	Ping(ctx context.Context) error

	// Close closes the cache connection
	Close() error
}
