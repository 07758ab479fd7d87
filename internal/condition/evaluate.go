package condition

import (
	"errors"
	"fmt"

	"github.com/roach88/autotimer/internal/eventlog"
	"github.com/roach88/autotimer/internal/ir"
	"github.com/roach88/autotimer/internal/snes"
)

// ErrUnsupported marks a condition the evaluator refuses to guess about.
var ErrUnsupported = errors.New("unsupported condition")

// UnsupportedError identifies the offending node.
type UnsupportedError struct {
	Kind    ir.ConditionKind
	Operand ir.OperandKind
	Offset  int
}

func (e *UnsupportedError) Error() string {
	if e.Operand != "" {
		return fmt.Sprintf("unsupported condition %s with operand %s at offset 0x%X", e.Kind, e.Operand, e.Offset)
	}
	return fmt.Sprintf("unsupported condition %s at offset 0x%X", e.Kind, e.Offset)
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// Context is everything a condition may observe.
type Context struct {
	Snapshot *snes.Snapshot
	History  *snes.History
	Log      *eventlog.Tracker
}

func (c Context) previous() *snes.Snapshot {
	if c.History == nil {
		return nil
	}
	return c.History.Previous()
}

// All evaluates a top-level condition list as a conjunction, stopping at
// the first false or failing condition. An empty list holds.
func All(conds []ir.Condition, ctx Context) (bool, error) {
	for _, c := range conds {
		ok, err := Evaluate(c, ctx)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Any evaluates a list as a disjunction, stopping at the first true or
// failing condition. An empty list does not hold.
func Any(conds []ir.Condition, ctx Context) (bool, error) {
	for _, c := range conds {
		ok, err := Evaluate(c, ctx)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// Evaluate reports whether c holds for ctx.
func Evaluate(c ir.Condition, ctx Context) (bool, error) {
	cur := ctx.Snapshot
	switch c.Kind {
	case ir.CondAll:
		return All(c.Sub, ctx)

	case ir.CondAny:
		return Any(c.Sub, ctx)

	case ir.CondNot:
		ok, err := Any(c.Sub, ctx)
		return !ok && err == nil, err

	case ir.CondPreviousTile, ir.CondCurrentTile:
		// Both read the latest transition: while tiles are being resolved it
		// is the tile being left, afterwards it is the tile just entered.
		tile, err := ctx.Log.MustLatestTransition()
		if err != nil {
			return false, fmt.Errorf("%s: %w", c.Kind, err)
		}
		return tileMatches(c, tile), nil

	case ir.CondPreviousEvent:
		other, ok := ctx.Log.LatestOther()
		return ok && other.ID == c.ID, nil

	case ir.CondPreviousAction:
		action, ok := ctx.Log.LatestAction()
		return ok && action.ID == c.ID, nil

	case ir.CondCheckMade:
		_, ok := ctx.Log.FindLocationCheck(c.ID)
		return ok, nil

	case ir.CondHasItem:
		return ctx.Log.Count(ir.EventItemGet, c.ID) > 0, nil

	case ir.CondCoordinates:
		return CoordinatesMatch(c.Coordinates, cur), nil

	case ir.CondUnderworld:
		return cur.Indoors() == 1, nil

	case ir.CondCounterIncreased:
		prev := ctx.previous()
		return prev != nil && cur.Byte(c.Offset) > prev.Byte(c.Offset), nil

	case ir.CondBitwiseTrue:
		return cur.Byte(c.Offset)&c.Mask != 0, nil

	case ir.CondValueChanged:
		return changed(ctx, c.Offset, mask(c)), nil

	case ir.CondValueChangedTo:
		m := mask(c)
		return cur.Byte(c.Offset)&m == c.Value&m && changed(ctx, c.Offset, m), nil

	case ir.CondValueEq:
		m := mask(c)
		return cur.Byte(c.Offset)&m == c.Value&m, nil

	case ir.CondPreviousValueEq:
		prev := ctx.previous()
		m := mask(c)
		return prev != nil && prev.Byte(c.Offset)&m == c.Value&m, nil

	case ir.CondValueGreaterThan:
		return greaterThan(c, ctx)
	}
	return false, &UnsupportedError{Kind: c.Kind, Offset: c.Offset}
}

func greaterThan(c ir.Condition, ctx Context) (bool, error) {
	v := int(ctx.Snapshot.Byte(c.Offset))
	switch c.Other.Kind {
	case ir.OperandValueOfAddress:
		return v > int(ctx.Snapshot.Byte(c.Other.Offset)), nil
	case ir.OperandItemCount:
		return v > ctx.Log.Count(ir.EventItemGet, c.Other.ID), nil
	case ir.OperandEventCount:
		return v > ctx.Log.Count(ir.EventOther, c.Other.ID), nil
	}
	return false, &UnsupportedError{Kind: c.Kind, Operand: c.Other.Kind, Offset: c.Offset}
}

// tileMatches compares by id, or by name when the reference carries no id.
func tileMatches(c ir.Condition, tile ir.Tile) bool {
	if c.TileID != 0 {
		return c.TileID == tile.ID
	}
	return c.TileName != "" && c.TileName == tile.Name
}

// mask treats an unset mask as comparing the whole byte.
func mask(c ir.Condition) uint8 {
	if c.Mask == 0 {
		return ir.FullMask
	}
	return c.Mask
}

func changed(ctx Context, offset int, m uint8) bool {
	prev := ctx.previous()
	return prev != nil && prev.Byte(offset)&m != ctx.Snapshot.Byte(offset)&m
}
