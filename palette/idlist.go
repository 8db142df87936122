package palette

import "sync"

// IDList is a host-reference directory keyed by raw protocol state ID.
// The host fills it as state registrations arrive; palettes resolve
// packet IDs through it during decode.
//
// IDList is safe for concurrent use.
type IDList struct {
	mu sync.RWMutex
	m  map[int32]HostRef
}

// NewIDList creates an empty directory.
func NewIDList() *IDList {
	return &IDList{m: make(map[int32]HostRef)}
}

// Put registers or replaces the reference for id.
func (l *IDList) Put(id int32, ref HostRef) {
	l.mu.Lock()
	l.m[id] = ref
	l.mu.Unlock()
}

// Resolve returns the reference for id. It implements [Resolver].
func (l *IDList) Resolve(id int32) (HostRef, bool) {
	l.mu.RLock()
	ref, ok := l.m[id]
	l.mu.RUnlock()
	return ref, ok
}

// Len returns the number of registered IDs.
func (l *IDList) Len() int {
	l.mu.RLock()
	n := len(l.m)
	l.mu.RUnlock()
	return n
}
