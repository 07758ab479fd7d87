package condition

import (
	"github.com/roach88/autotimer/internal/ir"
	"github.com/roach88/autotimer/internal/snes"
)

// LivePosition returns the player's position as a Pair, read the way the
// target shape expects: continuous coordinates for chest hit boxes, the
// coordinates latched on the last transition otherwise.
func LivePosition(s *snes.Snapshot, target ir.Coordinate) ir.Coordinate {
	if target.Continuous() {
		return ir.Pair(s.X(), s.Y())
	}
	return ir.Pair(s.TransitionX(), s.TransitionY())
}

// CoordinatesMatch reports whether the live position matches any target.
func CoordinatesMatch(targets []ir.Coordinate, s *snes.Snapshot) bool {
	for _, target := range targets {
		if LivePosition(s, target).Matches(target) {
			return true
		}
	}
	return false
}
