package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each deployment or user
// its own cache namespace in a shared backend such as Redis.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "fontastic:")
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

// SuggestionKey generates a prefixed key for suggestion caching.
func (k *ScopedKeyer) SuggestionKey(opts SuggestionKeyOpts) string {
	return k.prefix + k.inner.SuggestionKey(opts)
}
