package registry

import "sync/atomic"

// Live holds the registry currently in use. Reloads swap the whole
// snapshot; readers holding the old one keep a consistent view.
type Live struct {
	cur atomic.Pointer[Registry]
}

// NewLive creates a holder serving r.
func NewLive(r *Registry) *Live {
	l := &Live{}
	l.Store(r)
	return l
}

// Load returns the current registry.
func (l *Live) Load() *Registry {
	return l.cur.Load()
}

// Store swaps in r and reports whether its digest differs from the
// previous registry.
func (l *Live) Store(r *Registry) (changed bool) {
	old := l.cur.Swap(r)
	return old == nil || old.Digest() != r.Digest()
}
