// Package block defines the block-state vocabulary shared by the palette
// registry and the chunk meshing pipeline: compact state keys, the six
// axis-aligned directions, and the read-only provider contracts a host
// implements to expose world data.
package block

import "fmt"

// Key identifies a block state inside the host registry. Block selects the
// block kind and Augment selects the concrete variant (orientation, power
// level, and so on) within that kind. Key is comparable and is used as a
// map key throughout the module.
type Key struct {
	Block   uint16
	Augment uint16
}

// KeyFromPacked splits a packed 32-bit state value into a Key.
// The block index occupies the high 16 bits and the augment index the
// low 16 bits.
func KeyFromPacked(packed uint32) Key {
	return Key{
		Block:   uint16(packed >> 16),
		Augment: uint16(packed & 0xffff),
	}
}

// Packed returns the 32-bit packed form of the key, the inverse of
// [KeyFromPacked].
func (k Key) Packed() uint32 {
	return uint32(k.Block)<<16 | uint32(k.Augment)
}

// String returns the key as "block:augment".
func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.Block, k.Augment)
}
