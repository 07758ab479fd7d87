package snes

import (
	"encoding/binary"
	"fmt"
)

// Region describes one contiguous block of memory fetched per poll.
type Region struct {
	Name  string
	Start int // offset relative to WRAMStart
	Size  int
}

// WRAMStart is the bus address all offsets are relative to.
const WRAMStart = 0xF50000

// The three regions fetched every poll.
var (
	RegionTileInfo    = Region{Name: "tile_info", Start: 0x0000, Size: 0x4C9}
	RegionFlags       = Region{Name: "flags", Start: 0xF021, Size: 0x4F7}
	RegionCoordinates = Region{Name: "coordinates", Start: 0xC184, Size: 0x4}
)

// Regions lists the fetched regions in request order.
var Regions = []Region{RegionTileInfo, RegionFlags, RegionCoordinates}

// Address returns the bus address of the region's first byte.
func (r Region) Address() uint32 {
	return uint32(WRAMStart + r.Start)
}

// Contains reports whether offset falls inside the region.
func (r Region) Contains(offset int) bool {
	return offset >= r.Start && offset < r.Start+r.Size
}

// Named offsets inside the tile info region.
const (
	OffsetGameState     = 0x010
	OffsetIndoors       = 0x01B
	OffsetY             = 0x020
	OffsetX             = 0x022
	OffsetGameMode      = 0x095
	OffsetEntranceID    = 0x10E
	OffsetOverworldTile = 0x40A
)

// Named offsets inside the coordinates region.
const (
	OffsetTransitionY = 0xC184
	OffsetTransitionX = 0xC186
)

// Snapshot is an immutable capture of the tracked memory regions.
type Snapshot struct {
	tileInfo    [0x4C9]byte
	flags       [0x4F7]byte
	coordinates [0x4]byte
}

// NewSnapshot copies the three regions into a Snapshot.
// Each chunk must be exactly the size of its region.
func NewSnapshot(tileInfo, flags, coordinates []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := fill(s.tileInfo[:], tileInfo, RegionTileInfo); err != nil {
		return nil, err
	}
	if err := fill(s.flags[:], flags, RegionFlags); err != nil {
		return nil, err
	}
	if err := fill(s.coordinates[:], coordinates, RegionCoordinates); err != nil {
		return nil, err
	}
	return s, nil
}

func fill(dst, src []byte, r Region) error {
	if len(src) != r.Size {
		return fmt.Errorf("region %s: got %d bytes, want %d", r.Name, len(src), r.Size)
	}
	copy(dst, src)
	return nil
}

// chunk returns the backing slice and base offset for offset.
func (s *Snapshot) chunk(offset int) ([]byte, int, bool) {
	switch {
	case RegionTileInfo.Contains(offset):
		return s.tileInfo[:], RegionTileInfo.Start, true
	case RegionFlags.Contains(offset):
		return s.flags[:], RegionFlags.Start, true
	case RegionCoordinates.Contains(offset):
		return s.coordinates[:], RegionCoordinates.Start, true
	}
	return nil, 0, false
}

// Mapped reports whether a byte at offset is captured by a Snapshot.
func Mapped(offset int) bool {
	for _, r := range Regions {
		if r.Contains(offset) {
			return true
		}
	}
	return false
}

// MappedWord reports whether both bytes of the word at offset lie in one region.
func MappedWord(offset int) bool {
	for _, r := range Regions {
		if r.Contains(offset) && r.Contains(offset+1) {
			return true
		}
	}
	return false
}

// Byte returns the byte at offset. Unmapped offsets read as zero; the
// compiler rejects data that references them.
func (s *Snapshot) Byte(offset int) uint8 {
	buf, base, ok := s.chunk(offset)
	if !ok {
		return 0
	}
	return buf[offset-base]
}

// Word returns the little-endian 16-bit value at offset.
func (s *Snapshot) Word(offset int) uint16 {
	buf, base, ok := s.chunk(offset)
	if !ok || offset+1-base >= len(buf) {
		return 0
	}
	return binary.LittleEndian.Uint16(buf[offset-base:])
}

// OverworldTile is the current overworld slot. It keeps its previous value
// while indoors.
func (s *Snapshot) OverworldTile() uint8 { return s.Byte(OffsetOverworldTile) }

// EntranceID is the most recent entrance transition.
func (s *Snapshot) EntranceID() uint8 { return s.Byte(OffsetEntranceID) }

// Indoors is 1 when inside, 0 when outside.
func (s *Snapshot) Indoors() uint8 { return s.Byte(OffsetIndoors) }

// GameMode is 0x0F on the start screen, 0x07 once spawned, 0x03 after flying.
func (s *Snapshot) GameMode() uint8 { return s.Byte(OffsetGameMode) }

// GameState is the main module index.
func (s *Snapshot) GameState() uint8 { return s.Byte(OffsetGameState) }

// X is the continuous x coordinate.
func (s *Snapshot) X() uint16 { return s.Word(OffsetX) }

// Y is the continuous y coordinate.
func (s *Snapshot) Y() uint16 { return s.Word(OffsetY) }

// TransitionX is the x coordinate latched on the last tile transition.
func (s *Snapshot) TransitionX() uint16 { return s.Word(OffsetTransitionX) }

// TransitionY is the y coordinate latched on the last tile transition.
func (s *Snapshot) TransitionY() uint16 { return s.Word(OffsetTransitionY) }

// GameHasStarted reports whether the main module is one of the in-world
// states (underworld/overworld load or play, 0x06 through 0x0B). Intro,
// file select, save and quit and credits all count as not started.
func (s *Snapshot) GameHasStarted() bool {
	state := s.GameState()
	return state >= 0x06 && state <= 0x0B
}
