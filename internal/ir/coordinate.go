package ir

// CoordinateKind names a coordinate shape.
type CoordinateKind string

const (
	CoordPair     CoordinateKind = "Pair"
	CoordRange    CoordinateKind = "Range"
	CoordChest    CoordinateKind = "Chest"
	CoordBigChest CoordinateKind = "BigChest"
	CoordStairs   CoordinateKind = "Stairs"
)

// Hit box extents around an anchor point.
const (
	ChestReachX    = 10
	BigChestReachX = 24
	ChestBelowY    = 1
	ChestAboveY    = 3
	StairsReachY   = 3
)

// Coordinate is either a live position (Pair) or a target shape.
//
// Range uses XRange/YRange as inclusive bounds; every other kind uses X/Y.
type Coordinate struct {
	Kind   CoordinateKind
	X, Y   uint16
	XRange [2]uint16
	YRange [2]uint16
}

// Pair returns a live coordinate.
func Pair(x, y uint16) Coordinate {
	return Coordinate{Kind: CoordPair, X: x, Y: y}
}

// Continuous reports whether the shape is matched against continuous
// player coordinates rather than the coordinates latched on transition.
func (c Coordinate) Continuous() bool {
	return c.Kind == CoordChest || c.Kind == CoordBigChest
}

// Matches tests a live Pair against a target shape.
//
// Only a Pair receiver is meaningful; matching a shape against another
// shape never matches.
func (c Coordinate) Matches(target Coordinate) bool {
	if c.Kind != CoordPair {
		return false
	}
	x, y := int(c.X), int(c.Y)
	tx, ty := int(target.X), int(target.Y)
	switch target.Kind {
	case CoordPair:
		return x == tx && y == ty
	case CoordRange:
		return x >= int(target.XRange[0]) && x <= int(target.XRange[1]) &&
			y >= int(target.YRange[0]) && y <= int(target.YRange[1])
	case CoordChest:
		return within(x, tx-ChestReachX, tx+ChestReachX) && within(y, ty-ChestBelowY, ty+ChestAboveY)
	case CoordBigChest:
		return within(x, tx-BigChestReachX, tx+BigChestReachX) && within(y, ty-ChestBelowY, ty+ChestAboveY)
	case CoordStairs:
		return x == tx && within(y, ty-StairsReachY, ty+StairsReachY)
	}
	return false
}

func within(v, lo, hi int) bool {
	return v >= lo && v <= hi
}
