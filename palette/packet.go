package palette

import (
	"errors"
	"fmt"

	"github.com/gogpu/glbridge/block"
)

// Packet framing errors. All of them are fatal: the caller cannot resync
// the stream after any of these and must drop the connection or chunk.
var (
	// ErrVarintOverflow is returned when a varint runs past the 5-byte
	// limit for 32-bit values.
	ErrVarintOverflow = errors.New("palette: varint exceeds 5 bytes")

	// ErrTruncatedPacket is returned when the buffer ends mid-varint or
	// before the declared entry count was read.
	ErrTruncatedPacket = errors.New("palette: truncated packet")

	// ErrCountExceedsOffsets is returned when the packet declares more
	// entries than the caller supplied state offsets for.
	ErrCountExceedsOffsets = errors.New("palette: entry count exceeds state offsets")

	// ErrUnresolvedID is returned when a packet state ID is missing from
	// the palette's resolver directory.
	ErrUnresolvedID = errors.New("palette: state id not in directory")
)

// maxVarintLen is the maximum encoded length of a 32-bit varint.
const maxVarintLen = 5

// readUvarint decodes one little-endian base-128 varint from buf.
// It returns the value and the number of bytes consumed. Encodings longer
// than 5 bytes are rejected even if the trailing bytes would be zero.
func readUvarint(buf []byte) (uint32, int, error) {
	var v uint32
	for i := 0; i < maxVarintLen; i++ {
		if i >= len(buf) {
			return 0, 0, ErrTruncatedPacket
		}
		b := buf[i]
		v |= uint32(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrVarintOverflow
}

// AppendUvarint appends the little-endian base-128 encoding of v to dst
// and returns the extended slice. It is the inverse of the packet
// decoder's varint reader and is mostly useful for building test and
// replay fixtures.
func AppendUvarint(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// DecodePacket reads one palette packet from buf starting at offset and
// appends the decoded entries in wire order.
//
// Wire format: a varint entry count, then count varint state IDs. Each ID
// is resolved to a host reference through the bound resolver, and the
// i-th entry's key comes from stateOffsets[i] via [block.KeyFromPacked].
// Entries are appended with [Palette.Add] so duplicate keys keep their
// wire positions.
//
// The return value is the number of bytes consumed from offset. On error
// the palette may hold a prefix of the packet's entries; callers treat
// every error here as fatal and discard the palette.
func (p *Palette) DecodePacket(buf []byte, offset int, stateOffsets []uint32) (int, error) {
	if offset < 0 || offset > len(buf) {
		return 0, fmt.Errorf("%w: offset %d outside buffer of %d", ErrTruncatedPacket, offset, len(buf))
	}
	if p.resolver == nil {
		return 0, ErrNoResolver
	}
	data := buf[offset:]

	count, pos, err := readUvarint(data)
	if err != nil {
		return 0, fmt.Errorf("entry count: %w", err)
	}
	if int64(count) > int64(len(stateOffsets)) {
		return 0, fmt.Errorf("%w: count %d, offsets %d", ErrCountExceedsOffsets, count, len(stateOffsets))
	}

	for i := 0; i < int(count); i++ {
		id, n, err := readUvarint(data[pos:])
		if err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
		pos += n

		ref, ok := p.resolver.Resolve(int32(id))
		if !ok {
			return 0, fmt.Errorf("%w: id %d at entry %d", ErrUnresolvedID, int32(id), i)
		}
		p.Add(Entry{Ref: ref, Key: block.KeyFromPacked(stateOffsets[i])})
	}
	return pos, nil
}
