// Package cache stores AI layout suggestions so repeated requests for the
// same text, font and spacing do not hit the model again.
//
// Caching is opt-in. The default backend is [NullCache], which keeps the
// one-call-per-request behaviour; [FileCache] suits the CLI and [RedisCache]
// a shared HTTP deployment. Export artifacts are never cached: they are
// derived fresh from the current measurement on every export.
//
// Keys are produced by a [Keyer] so callers never build them by hand:
//
//	k := cache.NewDefaultKeyer()
//	key := k.SuggestionKey(cache.SuggestionKeyOpts{Model: "gemini-2.0-flash", Text: "Fontastic", Font: "Montserrat", Spacing: 1})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as hit == false
	// with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
