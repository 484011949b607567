// Package cache stores fetched lock text, registry responses and rendered
// graphs.
//
// # Backends
//
//   - [NewNullCache]: stores nothing (cache_backend "none", --no-cache)
//   - [FileCache]: one JSON file per entry, for CLI use
//   - [RedisCache]: shared cache for the HTTP server
//
// All backends implement [Cache] and are safe for concurrent use.
//
// # Keys
//
// A [Keyer] derives keys so that every backend uses the same layout:
//
//	k := cache.NewDefaultKeyer()
//	k.HTTPKey("crates:", "serde")                   // "http:crates::serde"
//	k.GraphKey("lock", "serde", cache.GraphKeyOpts{Version: "1.0.200"})
//
// Wrap it with [NewScopedKeyer] to isolate deployments sharing one Redis.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the stored data and whether it was found. Expired entries
	// are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

type nullCache struct{}

// NewNullCache returns a cache that stores nothing: every Get misses and
// writes succeed without effect.
func NewNullCache() Cache { return nullCache{} }

func (nullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nullCache) Delete(context.Context, string) error                     { return nil }
func (nullCache) Close() error                                             { return nil }
