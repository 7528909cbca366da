// Package cache stores rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the render service
//   - [NullCache]: stores nothing, for tests and --no-cache
//
// # Keys
//
// Keys come from a [Keyer] so that callers never assemble them by hand.
// [DefaultKeyer] hashes the tree and every render option that changes the
// output; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value and whether it was found. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data for ttl. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Default time-to-live values.
const (
	// TTLArtifact applies to rendered SVG, PNG, JSON and DOT outputs.
	TTLArtifact = 24 * time.Hour
	// TTLStyle applies to resolved connector styles served over HTTP.
	TTLStyle = 7 * 24 * time.Hour
)
