package palette

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/glbridge"
)

// Registry configuration constants.
const (
	// shardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	shardCount = 16

	// shardMask is used for fast shard selection (shardCount - 1).
	shardMask = shardCount - 1

	// handleShardBits is the number of low handle bits holding the shard.
	handleShardBits = 4
)

// Handle names a palette inside a Registry. Handles are opaque integers
// safe to pass across a foreign-function boundary. The zero Handle is
// never issued and always resolves to ErrUnknownHandle.
//
// Destroyed handles may be recycled by later Create calls; using a handle
// after Destroy is a host contract violation and may address a different
// palette.
type Handle uint64

// Registry is a process-wide, sharded store of palettes. Each shard holds
// a slot slab with a free list, guarded by its own RWMutex, so operations
// on palettes in different shards never contend.
//
// Registry is safe for concurrent use.
type Registry struct {
	shards [shardCount]registryShard
	next   atomic.Uint64
}

// registryShard is a single shard of the registry.
type registryShard struct {
	mu    sync.RWMutex
	slots []*Palette
	free  []int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry is the shared process-wide registry used by hosts that
// need a single global handle space.
var DefaultRegistry = NewRegistry()

// makeHandle encodes a shard index and slot into a handle. Slots are
// stored off by one so the zero Handle stays invalid.
func makeHandle(shard, slot int) Handle {
	return Handle(uint64(slot+1)<<handleShardBits | uint64(shard))
}

// split decodes a handle into its shard index and slot.
// ok is false for the zero handle.
func (h Handle) split() (shard, slot int, ok bool) {
	if h == 0 {
		return 0, 0, false
	}
	return int(h & shardMask), int(h>>handleShardBits) - 1, true
}

// Create allocates a new empty palette bound to resolver and returns its
// handle. Destroyed slots are recycled before the slab grows.
func (r *Registry) Create(resolver Resolver) Handle {
	shard := int(r.next.Add(1) & shardMask)
	s := &r.shards[shard]

	s.mu.Lock()
	defer s.mu.Unlock()

	p := New(resolver)
	var h Handle
	if n := len(s.free); n > 0 {
		slot := s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[slot] = p
		h = makeHandle(shard, slot)
	} else {
		s.slots = append(s.slots, p)
		h = makeHandle(shard, len(s.slots)-1)
	}
	glbridge.Logger().Debug("palette created", "handle", uint64(h))
	return h
}

// Destroy removes the palette named by h and recycles its slot.
func (r *Registry) Destroy(h Handle) error {
	shard, slot, ok := h.split()
	if !ok {
		return ErrUnknownHandle
	}
	s := &r.shards[shard]

	s.mu.Lock()
	defer s.mu.Unlock()

	if slot >= len(s.slots) || s.slots[slot] == nil {
		return ErrUnknownHandle
	}
	s.slots[slot] = nil
	s.free = append(s.free, slot)
	glbridge.Logger().Debug("palette destroyed", "handle", uint64(h))
	return nil
}

// Clear empties the palette named by h, keeping it alive.
func (r *Registry) Clear(h Handle) error {
	shard, slot, ok := h.split()
	if !ok {
		return ErrUnknownHandle
	}
	s := &r.shards[shard]

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.lookup(slot)
	if p == nil {
		return ErrUnknownHandle
	}
	p.Clear()
	return nil
}

// Index deduplicates e into the palette named by h and returns its
// position.
func (r *Registry) Index(h Handle, e Entry) (int, error) {
	shard, slot, ok := h.split()
	if !ok {
		return 0, ErrUnknownHandle
	}
	s := &r.shards[shard]

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.lookup(slot)
	if p == nil {
		return 0, ErrUnknownHandle
	}
	return p.Index(e), nil
}

// Add appends e unconditionally to the palette named by h.
func (r *Registry) Add(h Handle, e Entry) error {
	shard, slot, ok := h.split()
	if !ok {
		return ErrUnknownHandle
	}
	s := &r.shards[shard]

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.lookup(slot)
	if p == nil {
		return ErrUnknownHandle
	}
	p.Add(e)
	return nil
}

// Size returns the entry count of the palette named by h.
func (r *Registry) Size(h Handle) (int, error) {
	shard, slot, ok := h.split()
	if !ok {
		return 0, ErrUnknownHandle
	}
	s := &r.shards[shard]

	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.lookup(slot)
	if p == nil {
		return 0, ErrUnknownHandle
	}
	return p.Size(), nil
}

// Get returns the entry at position i of the palette named by h,
// following the fallback rule documented on [Palette.Get].
func (r *Registry) Get(h Handle, i int) (Entry, error) {
	shard, slot, ok := h.split()
	if !ok {
		return Entry{}, ErrUnknownHandle
	}
	s := &r.shards[shard]

	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.lookup(slot)
	if p == nil {
		return Entry{}, ErrUnknownHandle
	}
	return p.Get(i)
}

// Clone deep-copies the palette named by h into a fresh slot and returns
// the new handle. The copy is taken under the shard lock, so it is a
// consistent snapshot even with concurrent writers.
func (r *Registry) Clone(h Handle) (Handle, error) {
	shard, slot, ok := h.split()
	if !ok {
		return 0, ErrUnknownHandle
	}
	s := &r.shards[shard]

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.lookup(slot)
	if p == nil {
		return 0, ErrUnknownHandle
	}
	c := p.Clone()
	if n := len(s.free); n > 0 {
		newSlot := s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[newSlot] = c
		return makeHandle(shard, newSlot), nil
	}
	s.slots = append(s.slots, c)
	return makeHandle(shard, len(s.slots)-1), nil
}

// DecodePacket decodes a palette packet into the palette named by h.
// See [Palette.DecodePacket] for the wire format and error contract.
func (r *Registry) DecodePacket(h Handle, buf []byte, offset int, stateOffsets []uint32) (int, error) {
	shard, slot, ok := h.split()
	if !ok {
		return 0, ErrUnknownHandle
	}
	s := &r.shards[shard]

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.lookup(slot)
	if p == nil {
		return 0, ErrUnknownHandle
	}
	return p.DecodePacket(buf, offset, stateOffsets)
}

// lookup returns the palette at slot, or nil if the slot is out of range
// or free. Callers must hold the shard lock.
func (s *registryShard) lookup(slot int) *Palette {
	if slot < 0 || slot >= len(s.slots) {
		return nil
	}
	return s.slots[slot]
}
