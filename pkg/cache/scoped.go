package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Server deployments use this to keep per-client report caches in
// separate namespaces while sharing one backend.
//
// Example usage:
//
//	// Client-specific keys for private report definitions
//	clientKeyer := NewScopedKeyer(NewDefaultKeyer(), "client:abc123:")
//
//	// Global keys for shared templates
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DefinitionKey generates a prefixed key for definition caching.
func (k *ScopedKeyer) DefinitionKey(contentHash string) string {
	return k.prefix + k.inner.DefinitionKey(contentHash)
}

// IRKey generates a prefixed key for compiled IR caching.
func (k *ScopedKeyer) IRKey(defHash string) string {
	return k.prefix + k.inner.IRKey(defHash)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(irHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(irHash, opts)
}
