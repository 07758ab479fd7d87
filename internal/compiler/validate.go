package compiler

import (
	"fmt"

	"github.com/roach88/autotimer/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrDuplicateID       = "E101" // duplicate id within one list
	ErrUnknownTile       = "E102" // tile condition references no known tile
	ErrUnknownLocation   = "E103" // CheckMade references no location
	ErrUnknownItem       = "E104" // HasItem or ItemCount references no item
	ErrUnknownEvent      = "E105" // PreviousEvent or EventCount references no event
	ErrUnknownAction     = "E106" // PreviousAction references no action
	ErrUnsupportedOp     = "E107" // operand the evaluator rejects at runtime
	ErrAmbiguousTile     = "E108" // unconditioned tiles sharing an address value
)

// ValidationError represents a cross-reference or consistency error found
// after every list compiled on its own.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Warning bool   `json:"warning,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Warning {
		return fmt.Sprintf("warning [%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Lists is the compiled form of every declarative list, in load order.
type Lists struct {
	Events    []ir.Check
	Locations []ir.Check
	Items     []ir.Check
	Actions   []ir.Check
	Tiles     []ir.Tile

	// Warnings are validation findings that do not stop loading.
	Warnings []ValidationError
}

// Validate checks references between lists.
// Returns all errors and warnings found (does not fail-fast).
func Validate(l *Lists) []ValidationError {
	var errs []ValidationError

	ids := map[ir.CheckKind]map[int]bool{}
	for _, list := range [][]ir.Check{l.Events, l.Locations, l.Items, l.Actions} {
		for i, c := range list {
			seen := ids[c.Kind]
			if seen == nil {
				seen = map[int]bool{}
				ids[c.Kind] = seen
			}
			if seen[c.ID] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%ss[%d].id", c.Kind, i),
					Message: fmt.Sprintf("duplicate %s id %d (%q)", c.Kind, c.ID, c.Name),
					Code:    ErrDuplicateID,
				})
			}
			seen[c.ID] = true
		}
	}

	tileIDs := map[int]bool{ir.StartTileID: true}
	tileNames := map[string]bool{ir.StartTileName: true}
	for i, t := range l.Tiles {
		if tileIDs[t.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("tiles[%d].id", i),
				Message: fmt.Sprintf("duplicate tile id %d (%q)", t.ID, t.Name),
				Code:    ErrDuplicateID,
			})
		}
		tileIDs[t.ID] = true
		tileNames[t.Name] = true
	}
	errs = append(errs, ambiguousTiles(l.Tiles)...)

	ref := func(field string, c ir.Condition) []ValidationError {
		var out []ValidationError
		c.Walk(func(c ir.Condition) {
			if e, ok := checkRef(c, ids, tileIDs, tileNames); !ok {
				e.Field = field
				out = append(out, e)
			}
		})
		return out
	}
	for _, list := range [][]ir.Check{l.Events, l.Locations, l.Items, l.Actions} {
		for i, c := range list {
			for j, cond := range c.Conditions {
				errs = append(errs, ref(fmt.Sprintf("%ss[%d].conditions[%d]", c.Kind, i, j), cond)...)
			}
		}
	}
	for i, t := range l.Tiles {
		for j, cond := range t.Conditions {
			errs = append(errs, ref(fmt.Sprintf("tiles[%d].conditions[%d]", i, j), cond)...)
		}
	}
	return errs
}

func checkRef(c ir.Condition, ids map[ir.CheckKind]map[int]bool, tileIDs map[int]bool, tileNames map[string]bool) (ValidationError, bool) {
	missing := func(code, what string, id int) (ValidationError, bool) {
		return ValidationError{
			Message: fmt.Sprintf("%s references unknown %s %d", c.Kind, what, id),
			Code:    code,
		}, false
	}
	switch c.Kind {
	case ir.CondPreviousTile, ir.CondCurrentTile:
		if c.TileID != 0 && !tileIDs[c.TileID] {
			return missing(ErrUnknownTile, "tile", c.TileID)
		}
		if c.TileID == 0 && !tileNames[c.TileName] {
			return ValidationError{
				Message: fmt.Sprintf("%s references unknown tile %q", c.Kind, c.TileName),
				Code:    ErrUnknownTile,
			}, false
		}
	case ir.CondCheckMade:
		if !ids[ir.KindLocation][c.ID] {
			return missing(ErrUnknownLocation, "location", c.ID)
		}
	case ir.CondHasItem:
		if !ids[ir.KindItem][c.ID] {
			return missing(ErrUnknownItem, "item", c.ID)
		}
	case ir.CondPreviousEvent:
		if !ids[ir.KindEvent][c.ID] {
			return missing(ErrUnknownEvent, "event", c.ID)
		}
	case ir.CondPreviousAction:
		if !ids[ir.KindAction][c.ID] {
			return missing(ErrUnknownAction, "action", c.ID)
		}
	case ir.CondValueGreaterThan:
		switch c.Other.Kind {
		case ir.OperandCheckCount:
			return ValidationError{
				Message: "ValueGreaterThan with a CheckCount operand is not supported and fails at runtime",
				Code:    ErrUnsupportedOp,
				Warning: true,
			}, false
		case ir.OperandItemCount:
			if !ids[ir.KindItem][c.Other.ID] {
				return missing(ErrUnknownItem, "item", c.Other.ID)
			}
		case ir.OperandEventCount:
			if !ids[ir.KindEvent][c.Other.ID] {
				return missing(ErrUnknownEvent, "event", c.Other.ID)
			}
		}
	}
	return ValidationError{}, true
}

// ambiguousTiles reports address values claimed by more than one
// unconditioned tile with the same indoors flag: only the first could ever
// be resolved.
func ambiguousTiles(tiles []ir.Tile) []ValidationError {
	type slot struct {
		indoors bool
		value   uint16
	}
	owner := map[slot]int{}
	var errs []ValidationError
	for i, t := range tiles {
		if t.Conditions != nil {
			continue
		}
		for _, v := range t.AddressValues {
			s := slot{t.Indoors, v}
			if first, ok := owner[s]; ok {
				errs = append(errs, ValidationError{
					Field: fmt.Sprintf("tiles[%d].address_value", i),
					Message: fmt.Sprintf("address value 0x%X already resolves to %q; %q needs conditions",
						v, tiles[first].Name, t.Name),
					Code: ErrAmbiguousTile,
				})
				continue
			}
			owner[s] = i
		}
	}
	return errs
}
