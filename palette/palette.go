// Package palette maintains indexed, deduplicating palettes of block
// states that mirror a host application's mutable state registry.
//
// A palette maps small local indices (the values stored per-block in chunk
// data) to full entries pairing a host object reference with a block-state
// key. Palettes live in a process-wide [Registry] addressed by opaque
// handles, so a host can create, fill, copy, and destroy them across a
// foreign-function boundary without sharing Go pointers.
package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/glbridge/block"
)

// Palette errors.
var (
	// ErrUnknownHandle is returned when a handle does not name a live
	// palette (never issued, or already destroyed).
	ErrUnknownHandle = errors.New("palette: unknown handle")

	// ErrEmptyPalette is returned by Get on a palette with no entries.
	// Callers treat this as fatal: chunk data referenced a palette that
	// was never populated.
	ErrEmptyPalette = errors.New("palette: get on empty palette")

	// ErrNoResolver is returned by DecodePacket when the palette has no
	// bound resolver to map raw state IDs through.
	ErrNoResolver = errors.New("palette: no resolver bound")
)

// HostRef is an opaque token standing in for a host-owned object
// reference. The palette stores, compares, and returns tokens but never
// interprets them; their lifetime is managed entirely by the host.
type HostRef uint64

// Entry pairs a host reference with the block-state key it represents.
type Entry struct {
	Ref HostRef
	Key block.Key
}

// Resolver maps raw protocol state IDs to host references. The host's ID
// directory ([IDList]) is the usual implementation.
type Resolver interface {
	Resolve(id int32) (HostRef, bool)
}

// Palette is an ordered, deduplicating store of entries. Positions are
// stable: once an entry lands at a position, that position keeps
// referring to it for the palette's lifetime (Add may later rebind the
// entry's key to a newer position, see Add).
//
// Palette is not safe for concurrent use on its own; [Registry]
// serializes access for palettes it owns.
type Palette struct {
	store    []Entry
	indices  map[block.Key]int
	resolver Resolver
}

// New creates an empty palette bound to the given resolver.
// The resolver may be nil if DecodePacket will not be used.
func New(resolver Resolver) *Palette {
	return &Palette{
		store:    make([]Entry, 0, 5),
		indices:  make(map[block.Key]int),
		resolver: resolver,
	}
}

// Index returns the position of the entry with e's key, appending e if no
// entry with that key exists yet. This is the deduplicating hot path used
// while building chunk data.
func (p *Palette) Index(e Entry) int {
	if pos, ok := p.indices[e.Key]; ok {
		return pos
	}
	pos := len(p.store)
	p.indices[e.Key] = pos
	p.store = append(p.store, e)
	return pos
}

// Add appends e unconditionally and points the key lookup at the new
// position. Earlier positions holding the same key remain valid for Get;
// only the key-to-position mapping moves (last write wins). Packet decode
// uses Add because wire order must be preserved exactly.
func (p *Palette) Add(e Entry) {
	p.indices[e.Key] = len(p.store)
	p.store = append(p.store, e)
}

// Size returns the number of entries.
func (p *Palette) Size() int {
	return len(p.store)
}

// Get returns the entry at position i. An out-of-range position falls
// back to the entry at position 0, matching the host's historical
// contract for sparse chunk data; callers wanting strict bounds should
// check i against Size first. Get fails only when the palette is empty.
func (p *Palette) Get(i int) (Entry, error) {
	if i >= 0 && i < len(p.store) {
		return p.store[i], nil
	}
	if len(p.store) > 0 {
		return p.store[0], nil
	}
	return Entry{}, fmt.Errorf("%w: index %d", ErrEmptyPalette, i)
}

// Clear removes all entries, keeping allocated capacity and the bound
// resolver.
func (p *Palette) Clear() {
	p.store = p.store[:0]
	clear(p.indices)
}

// HasAny reports whether any stored host reference satisfies pred.
func (p *Palette) HasAny(pred func(HostRef) bool) bool {
	for _, e := range p.store {
		if pred(e.Ref) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy sharing the same resolver.
func (p *Palette) Clone() *Palette {
	c := &Palette{
		store:    make([]Entry, len(p.store)),
		indices:  make(map[block.Key]int, len(p.indices)),
		resolver: p.resolver,
	}
	copy(c.store, p.store)
	for k, v := range p.indices {
		c.indices[k] = v
	}
	return c
}

// String returns a debug representation listing the stored keys in order.
func (p *Palette) String() string {
	var b strings.Builder
	b.WriteString("Palette{")
	for i, e := range p.store {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Key.String())
	}
	b.WriteString("}")
	return b.String()
}
