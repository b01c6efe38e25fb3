// Package cache provides the full-response page cache. It is deliberately
// decoupled from the web layer: the http package talks to the Store
// interface, so tests can swap the Redis backend for the in-memory one.
package cache

import (
	"context"
	"time"
)

// Store is a key-value store with TTL semantics. Entries are immutable
// per key: concurrent writers may race, the last write wins.
type Store interface {
	// Get returns the cached value and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Clear drops every entry written by this store.
	Clear(ctx context.Context)
}
