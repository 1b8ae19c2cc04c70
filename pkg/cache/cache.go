// Package cache stores registry API responses between runs.
//
// Generating a template for a gem with a deep dependency tree hits
// rubygems.org once per dependency; re-running after a failure (or running
// `-u` right after a generate) would repeat every request. A [Cache] keeps the
// decoded responses for a TTL so those runs are fast and polite.
//
// Three backends are provided:
//
//   - [FileCache]: one JSON file per key under ~/.cache/tmplgen (the default)
//   - [RedisCache]: a shared Redis instance, for build hosts that run tmplgen
//     from several machines
//   - [NullCache]: caching disabled (--no-cache, tests)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Get reports a miss as (nil, false, nil); an error means the backend itself
// failed. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
