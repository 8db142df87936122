package block

// LightLevel packs the sky and block light contributions for one position
// into a single byte: sky light in the high nibble, block light in the low
// nibble. Each component ranges 0 to 15.
type LightLevel uint8

// LightFromSkyAndBlock builds a LightLevel from its two components.
// Values above 15 are clamped.
func LightFromSkyAndBlock(sky, blockLight uint8) LightLevel {
	if sky > 15 {
		sky = 15
	}
	if blockLight > 15 {
		blockLight = 15
	}
	return LightLevel(sky<<4 | blockLight)
}

// Sky returns the sky light component (0-15).
func (l LightLevel) Sky() uint8 { return uint8(l) >> 4 }

// Block returns the block light component (0-15).
func (l LightLevel) Block() uint8 { return uint8(l) & 0x0f }

// StateProvider exposes read-only world state to chunk meshing. The host
// implements it over its own storage; implementations must be safe for
// concurrent reads because meshing may query neighboring sections from
// multiple goroutines.
//
// StateAt reports the state key at a world position. The second return is
// false for air (no key).
type StateProvider interface {
	StateAt(x, y, z int32) (Key, bool)

	// LightAt reports the combined light level at a world position.
	LightAt(x, y, z int32) LightLevel

	// SectionEmpty reports whether the vertical section at index holds no
	// non-air blocks, letting meshing skip it wholesale.
	SectionEmpty(index int) bool

	// Origin returns the provider's base position in block coordinates.
	Origin() IVec3
}
