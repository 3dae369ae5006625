// Package cache provides pluggable caching for the report pipeline.
//
// Three backends are available: a file cache for CLI usage, Redis and
// MongoDB for server deployments, and a null cache for disabling caching
// entirely. Backends are selected by URL scheme via Open.
package cache

import (
	"context"
	"strings"
	"time"
)

// TTLs per pipeline stage. Definitions and compiled IR are derived purely
// from file content, so they stay valid until the content changes; the TTL
// only bounds how long stale hashes linger on disk.
const (
	TTLDefinition = 24 * time.Hour
	TTLIR         = 24 * time.Hour
	TTLArtifact   = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// DefinitionKey generates a key for a parsed definition, from the
	// content hash of the definition file.
	DefinitionKey(contentHash string) string

	// IRKey generates a key for compiled IR, from the definition hash.
	IRKey(defHash string) string

	// ArtifactKey generates a key for rendered output, from the IR hash
	// and the render options that shape the artifact.
	ArtifactKey(irHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that affect artifact bytes.
// Anything that changes the output must be part of the key.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	DataHash string `json:"data_hash,omitempty"`
	Preamble bool   `json:"preamble,omitempty"`
}

// DefaultKeyer generates hash-based cache keys with stage prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DefinitionKey generates a key for a parsed definition.
func (k *DefaultKeyer) DefinitionKey(contentHash string) string {
	return hashKey("def", contentHash)
}

// IRKey generates a key for compiled IR.
func (k *DefaultKeyer) IRKey(defHash string) string {
	return hashKey("ir", defHash)
}

// ArtifactKey generates a key for rendered output.
func (k *DefaultKeyer) ArtifactKey(irHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", irHash, opts)
}

// Open selects a cache backend by URL scheme: redis:// and rediss:// open
// Redis, mongodb:// and mongodb+srv:// open MongoDB, everything else is
// treated as a filesystem directory.
func Open(ctx context.Context, url string) (Cache, error) {
	switch {
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return NewRedisCache(url)
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return NewMongoCache(ctx, url)
	default:
		return NewFileCache(url)
	}
}
