package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that one Redis or
// Mongo cache can serve several deployments without collisions.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// the default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// KernelKey implements Keyer.
func (k *ScopedKeyer) KernelKey(flameHash string, opts KernelKeyOpts) string {
	return k.prefix + k.inner.KernelKey(flameHash, opts)
}

// SPIRVKey implements Keyer.
func (k *ScopedKeyer) SPIRVKey(sourceHash string) string {
	return k.prefix + k.inner.SPIRVKey(sourceHash)
}
