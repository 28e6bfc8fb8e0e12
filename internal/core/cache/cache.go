// Package cache defines the cache client interface.
package cache

import (
	"context"
	"time"
)

// Type represents the type of cache backend.
type Type string

const (
	// TypeRedis represents a Redis cache.
	TypeRedis Type = "redis"
)

// Client defines the interface for cache operations. Session state is the
// only consumer; values are opaque encrypted blobs.
type Client interface {
	// Get retrieves a value by key. Returns nil if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL. If ttl is 0, the default
	// TTL is used.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Returns true if the key was deleted, false if
	// it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Ping checks if the cache connection is alive.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
