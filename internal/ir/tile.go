package ir

import (
	"slices"
	"time"
)

// Synthetic start tile seeded into every fresh event log.
const (
	StartTileID     = 9000
	StartTileName   = "AUTO_TIMER_START"
	StartTileRegion = "START"
)

// Tile is a discrete room or overworld area.
//
// AddressValues lists the entrance ids (indoors) or overworld slots
// (outdoors) that resolve to this tile. Tiles sharing an address value are
// told apart by Conditions.
type Tile struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Region        string      `json:"region"`
	AddressValues []uint16    `json:"address_value"`
	Indoors       bool        `json:"indoors"`
	Conditions    []Condition `json:"-"`
	At            time.Time   `json:"timestamp,omitempty"`
}

// StartTile returns the synthetic tile every session begins on.
func StartTile(at time.Time) Tile {
	return Tile{
		ID:            StartTileID,
		Name:          StartTileName,
		Region:        StartTileRegion,
		AddressValues: []uint16{0x0},
		At:            at,
	}
}

// Resolves reports whether the tile answers to the given address value.
func (t *Tile) Resolves(value uint16) bool {
	return slices.Contains(t.AddressValues, value)
}
