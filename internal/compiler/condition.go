package compiler

import (
	"fmt"
	"slices"

	"cuelang.org/go/cue"

	"github.com/roach88/autotimer/internal/ir"
)

// CompileConditions parses a list of condition nodes.
//
// An explicitly empty list compiles to an empty, non-nil slice: the check
// then uses the declarative path with a vacuously true conjunction.
func CompileConditions(v cue.Value) ([]ir.Condition, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{Field: "conditions", Message: "must be a list", Pos: v.Pos()}
	}
	conds := []ir.Condition{}
	for iter.Next() {
		c, err := CompileCondition(iter.Value())
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return conds, nil
}

// CompileCondition parses one condition node, recursing into composites.
//
//	{type: "ValueEq", offset: "0xF411", value: 3, mask: "0x0F"}
//	{type: "Any", conditions: [...]}
func CompileCondition(v cue.Value) (ir.Condition, error) {
	if err := v.Err(); err != nil {
		return ir.Condition{}, formatCUEError(err)
	}
	tag, err := requiredString(v, "type")
	if err != nil {
		return ir.Condition{}, err
	}
	kind := ir.ConditionKind(tag)
	if !slices.Contains(ir.ConditionKinds, kind) {
		return ir.Condition{}, &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("unknown condition type %q", tag),
			Pos:     lookup(v, "type").Pos(),
		}
	}

	c := ir.Condition{Kind: kind}
	switch kind {
	case ir.CondAll, ir.CondAny, ir.CondNot:
		sub := lookup(v, "conditions")
		if !sub.Exists() {
			return c, &CompileError{Field: "conditions", Message: tag + " requires conditions", Pos: v.Pos()}
		}
		c.Sub, err = CompileConditions(sub)

	case ir.CondPreviousTile, ir.CondCurrentTile:
		err = compileTileRef(v, &c)

	case ir.CondPreviousEvent, ir.CondPreviousAction, ir.CondCheckMade, ir.CondHasItem:
		c.ID, err = requiredInt(v, "id", 0xFFFF)

	case ir.CondCoordinates:
		c.Coordinates, err = compileCoordinates(v)

	case ir.CondUnderworld:
		// No operands.

	case ir.CondCounterIncreased:
		c.Offset, err = offset(v, "offset", true)

	case ir.CondBitwiseTrue:
		if c.Offset, err = offset(v, "offset", true); err == nil {
			c.Mask, err = byteField(v, "mask", true, 0)
		}

	case ir.CondValueChanged:
		if c.Offset, err = offset(v, "offset", true); err == nil {
			c.Mask, err = byteField(v, "mask", false, ir.FullMask)
		}

	case ir.CondValueChangedTo, ir.CondValueEq, ir.CondPreviousValueEq:
		if c.Offset, err = offset(v, "offset", true); err != nil {
			break
		}
		if c.Value, err = byteField(v, "value", true, 0); err != nil {
			break
		}
		c.Mask, err = byteField(v, "mask", false, ir.FullMask)

	case ir.CondValueGreaterThan:
		if c.Offset, err = offset(v, "offset", true); err == nil {
			c.Other, err = compileOperand(v)
		}
	}
	return c, err
}

func byteField(v cue.Value, field string, required bool, def uint8) (uint8, error) {
	if required {
		n, err := requiredInt(v, field, 0xFF)
		return uint8(n), err
	}
	n, err := optionalInt(v, field, 0xFF, int(def))
	return uint8(n), err
}

// compileTileRef accepts a tile id, a tile name, or both.
func compileTileRef(v cue.Value, c *ir.Condition) error {
	hasID := lookup(v, "id").Exists()
	hasName := lookup(v, "name").Exists()
	if !hasID && !hasName {
		return &CompileError{Field: "id", Message: string(c.Kind) + " requires a tile id or name", Pos: v.Pos()}
	}
	var err error
	if hasID {
		if c.TileID, err = requiredInt(v, "id", 0xFFFF); err != nil {
			return err
		}
	}
	if hasName {
		c.TileName, err = name(v)
	}
	return err
}

func compileOperand(v cue.Value) (ir.Operand, error) {
	other := lookup(v, "other")
	if !other.Exists() {
		return ir.Operand{}, &CompileError{Field: "other", Message: "ValueGreaterThan requires other", Pos: v.Pos()}
	}
	tag, err := requiredString(other, "type")
	if err != nil {
		return ir.Operand{}, err
	}
	op := ir.Operand{Kind: ir.OperandKind(tag)}
	switch op.Kind {
	case ir.OperandValueOfAddress:
		op.Offset, err = offset(other, "offset", true)
	case ir.OperandCheckCount, ir.OperandItemCount, ir.OperandEventCount:
		op.ID, err = requiredInt(other, "id", 0xFFFF)
	default:
		err = &CompileError{
			Field:   "other.type",
			Message: fmt.Sprintf("unknown operand type %q", tag),
			Pos:     lookup(other, "type").Pos(),
		}
	}
	return op, err
}

func compileCoordinates(v cue.Value) ([]ir.Coordinate, error) {
	list := lookup(v, "coordinates")
	iter, err := list.List()
	if err != nil {
		return nil, &CompileError{Field: "coordinates", Message: "Coordinates requires a coordinates list", Pos: v.Pos()}
	}
	var out []ir.Coordinate
	for iter.Next() {
		c, err := CompileCoordinate(iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// CompileCoordinate parses one target shape.
//
//	{type: "Chest", x: 888, y: 985}
//	{type: "Range", x: "1273", y: "3664-3665"}
func CompileCoordinate(v cue.Value) (ir.Coordinate, error) {
	tag, err := requiredString(v, "type")
	if err != nil {
		return ir.Coordinate{}, err
	}
	c := ir.Coordinate{Kind: ir.CoordinateKind(tag)}
	x, y := lookup(v, "x"), lookup(v, "y")
	if !x.Exists() || !y.Exists() {
		return c, &CompileError{Field: "coordinates", Message: tag + " requires x and y", Pos: v.Pos()}
	}
	switch c.Kind {
	case ir.CoordRange:
		if c.XRange, err = coordinateRange(x, "x"); err != nil {
			return c, err
		}
		c.YRange, err = coordinateRange(y, "y")
	case ir.CoordPair, ir.CoordChest, ir.CoordBigChest, ir.CoordStairs:
		if c.X, err = coordinate(x, "x"); err != nil {
			return c, err
		}
		c.Y, err = coordinate(y, "y")
	default:
		err = &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("unknown coordinate type %q", tag),
			Pos:     lookup(v, "type").Pos(),
		}
	}
	return c, err
}
