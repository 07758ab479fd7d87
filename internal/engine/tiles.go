package engine

import (
	"github.com/roach88/autotimer/internal/condition"
	"github.com/roach88/autotimer/internal/ir"
	"github.com/roach88/autotimer/internal/snes"
)

// resolveTile finds the tile the snapshot places the player on.
//
// Candidates share the indoors flag and answer to the entrance id (indoors)
// or the overworld slot (outdoors). In declaration order:
//  1. the first conditioned candidate whose conditions hold
//  2. prev, if it is a candidate (rooms sharing an address stay put)
//  3. the first unconditioned candidate
//
// ok is false when nothing answers to the address.
func resolveTile(tiles []ir.Tile, prev ir.Tile, ctx condition.Context) (ir.Tile, bool, error) {
	indoors, value := address(ctx.Snapshot)

	var fallback *ir.Tile
	stay := false
	for i := range tiles {
		t := &tiles[i]
		if t.Indoors != indoors || !t.Resolves(value) {
			continue
		}
		if t.ID == prev.ID {
			stay = true
		}
		if t.Conditions == nil {
			if fallback == nil {
				fallback = t
			}
			continue
		}
		ok, err := condition.All(t.Conditions, ctx)
		if err != nil {
			return ir.Tile{}, false, classify(err, "tile", t.ID)
		}
		if ok {
			return *t, true, nil
		}
	}

	switch {
	case stay:
		return prev, true, nil
	case fallback != nil:
		return *fallback, true, nil
	}
	return ir.Tile{}, false, nil
}

func address(s *snes.Snapshot) (bool, uint16) {
	if s.Indoors() == 1 {
		return true, uint16(s.EntranceID())
	}
	return false, uint16(s.OverworldTile())
}
