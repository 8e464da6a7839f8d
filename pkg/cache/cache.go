// Package cache stores rendered images so repeated renders of the same
// matrix with the same options skip the work.
//
// # Backends
//
//   - [FileCache]: one file per entry under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance (HTTP service deployments)
//   - [NullCache]: stores nothing (--no-cache)
//
// # Keys
//
// Keys are built by a [Keyer] from the hash of the canonical matrix
// document and every option that changes the output bytes. Verbosity and
// loggers never affect pixels and are not part of the key.
package cache

import (
	"context"
	"time"
)

// RenderTTL is how long rendered images stay cached.
const RenderTTL = 7 * 24 * time.Hour

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored data and whether the key was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// RenderKeyOpts lists the options that influence rendered bytes.
type RenderKeyOpts struct {
	Format           string `json:"format"`
	ScalingFactor    int    `json:"scaling_factor"`
	WithColor        bool   `json:"with_color"`
	AnnotateImage    bool   `json:"annotate_image"`
	DrawDiagonal     bool   `json:"draw_diagonal"`
	DrawBoundaries   bool   `json:"draw_boundaries"`
	StrictBoundaries bool   `json:"strict_boundaries"`
}

// Keyer builds cache keys.
type Keyer interface {
	// RenderKey returns the key for an image rendered from the document
	// with hash docHash.
	RenderKey(docHash string, opts RenderKeyOpts) string
}

// DefaultKeyer produces keys of the form "render:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey implements [Keyer].
func (DefaultKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return hashKey("render", docHash, opts)
}
