// Package cache memoizes rendered diagrams.
//
// # Overview
//
// Rendering is a pure function of the diagram input and the output options,
// so its results can be stored under a content hash and served again
// without recomputation. The [Cache] interface is deliberately small
// (Get/Set/Delete/Close) so that several backends fit behind it:
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI)
//   - [RedisCache]: a shared Redis instance (server)
//   - [MongoCache]: a MongoDB collection with a TTL index (server)
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from the SHA-256 of the canonical input JSON and
// the artifact options. [DefaultKeyer] mixes in the build version so a new
// release never serves artifacts rendered by an old one. [ScopedKeyer]
// prefixes keys when several deployments share one backend.
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.Hash(inputJSON), cache.ArtifactKeyOpts{View: "timing", Format: "pdf", Width: 800})
//
// Backends treat expired or unreadable entries as misses. Errors are only
// returned for backend failures; callers in pkg/pipeline log them and carry
// on rendering.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/seqdiagram/pkg/buildinfo"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend connection.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Entry lifetimes.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(inputHash string) string
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	View   string  `json:"view"`
	Format string  `json:"format"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultKeyer builds keys of the form "<kind>:<sha256>", hashing the build
// version together with the input hash and options.
type DefaultKeyer struct {
	version string
}

// NewDefaultKeyer returns a keyer bound to the running build version.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{version: buildinfo.Version}
}

// LayoutKey returns the key of a laid-out diagram.
func (k *DefaultKeyer) LayoutKey(inputHash string) string {
	return hashKey("layout", k.version, inputHash)
}

// ArtifactKey returns the key of one rendered artifact.
func (k *DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", k.version, inputHash, opts)
}
