package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or
// environments can share one backend without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// DereferenceKey generates a prefixed key for a dereferencing result.
func (k *ScopedKeyer) DereferenceKey(inputHash string, opts DereferenceKeyOpts) string {
	return k.prefix + k.inner.DereferenceKey(inputHash, opts)
}

// LookupKey generates a prefixed key for a single location.
func (k *ScopedKeyer) LookupKey(inputHash, location string, opts DereferenceKeyOpts) string {
	return k.prefix + k.inner.LookupKey(inputHash, location, opts)
}
