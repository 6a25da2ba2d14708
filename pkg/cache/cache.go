// Package cache records which inputs have already been laid out so repeated
// batch runs can skip them.
//
// Entries are keyed by a digest of the input bytes plus every option that
// changes the rendered print (resolution, format, template, crop strategy).
// A hit is only trusted when the output file still exists with the recorded
// content hash; see the pipeline package for that check.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long print entries stay valid. Zero means no expiry.
const DefaultTTL time.Duration = 0

// Cache stores opaque values under string keys.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}
