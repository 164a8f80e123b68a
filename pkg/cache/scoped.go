package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Several friendgraph servers can share one Redis instance this way.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "team-a:")
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

// ReportKey generates a prefixed key for report caching.
func (k *ScopedKeyer) ReportKey(sourceHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(sourceHash, opts)
}
