package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis or MongoDB instance without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "blockgen:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CodeKey generates a prefixed key for generated code.
func (k *ScopedKeyer) CodeKey(language, workspaceHash string, opts CodeKeyOpts) string {
	return k.prefix + k.inner.CodeKey(language, workspaceHash, opts)
}

// GraphKey generates a prefixed key for rendered graphs.
func (k *ScopedKeyer) GraphKey(workspaceHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(workspaceHash, opts)
}
