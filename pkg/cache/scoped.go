package cache

// ScopedKeyer wraps a Keyer with a prefix so entries written by different
// builds do not collide.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
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

// PrintKey generates a prefixed print key.
func (k *ScopedKeyer) PrintKey(inputHash string, opts PrintKeyOpts) string {
	return k.prefix + k.inner.PrintKey(inputHash, opts)
}
