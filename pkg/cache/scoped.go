package cache

// ScopedKeyer wraps a Keyer with a prefix so several consumers can share
// one backend without colliding.
//
//	cli := NewScopedKeyer(nil, "cli:")
//	api := NewScopedKeyer(nil, "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(treeHash, opts)
}

// StyleKey generates a prefixed style key.
func (k *ScopedKeyer) StyleKey(preset, overrideHash string) string {
	return k.prefix + k.inner.StyleKey(preset, overrideHash)
}
