package snes

import "encoding/binary"

// Builder assembles snapshots for replays and tests.
//
// The zero value is ready to use. Writes to unmapped offsets are ignored.
type Builder struct {
	s Snapshot
}

// NewBuilder returns a Builder seeded with the contents of base, or an empty
// snapshot when base is nil.
func NewBuilder(base *Snapshot) *Builder {
	b := &Builder{}
	if base != nil {
		b.s = *base
	}
	return b
}

// Set writes a byte.
func (b *Builder) Set(offset int, value uint8) *Builder {
	if buf, base, ok := b.s.chunk(offset); ok {
		buf[offset-base] = value
	}
	return b
}

// SetWord writes a little-endian 16-bit value.
func (b *Builder) SetWord(offset int, value uint16) *Builder {
	buf, base, ok := b.s.chunk(offset)
	if !ok || offset+1-base >= len(buf) {
		return b
	}
	binary.LittleEndian.PutUint16(buf[offset-base:], value)
	return b
}

func (b *Builder) SetOverworldTile(v uint8) *Builder { return b.Set(OffsetOverworldTile, v) }
func (b *Builder) SetEntranceID(v uint8) *Builder    { return b.Set(OffsetEntranceID, v) }
func (b *Builder) SetIndoors(v uint8) *Builder       { return b.Set(OffsetIndoors, v) }
func (b *Builder) SetGameState(v uint8) *Builder     { return b.Set(OffsetGameState, v) }
func (b *Builder) SetX(v uint16) *Builder            { return b.SetWord(OffsetX, v) }
func (b *Builder) SetY(v uint16) *Builder            { return b.SetWord(OffsetY, v) }
func (b *Builder) SetTransitionX(v uint16) *Builder  { return b.SetWord(OffsetTransitionX, v) }
func (b *Builder) SetTransitionY(v uint16) *Builder  { return b.SetWord(OffsetTransitionY, v) }

// Build returns a copy of the assembled snapshot. The builder can keep
// being modified without affecting snapshots already built.
func (b *Builder) Build() *Snapshot {
	s := b.s
	return &s
}
