package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/autotimer/internal/ir"
)

// CompileCheck parses one check entry of the given list kind.
//
//	{id: 1, name: "Mushroom", sram_offset: "0xF411", sram_mask: "0x10"}
//	{id: 2, name: "Bow", sram_offset: "0xF38E", is_progressive: true,
//	 conditions: [{type: "ValueChanged", offset: "0xF38E"}]}
func CompileCheck(v cue.Value, kind ir.CheckKind) (ir.Check, error) {
	if err := v.Err(); err != nil {
		return ir.Check{}, formatCUEError(err)
	}
	c := ir.Check{Kind: kind}
	var err error
	if c.ID, err = requiredInt(v, "id", 0xFFFF); err != nil {
		return c, err
	}
	if c.Name, err = name(v); err != nil {
		return c, err
	}
	if lookup(v, "sram_offset").Exists() {
		if c.Offset, err = offset(v, "sram_offset", true); err != nil {
			return c, err
		}
		c.HasOffset = true
	}
	if c.Mask, err = byteField(v, "sram_mask", false, 0); err != nil {
		return c, err
	}
	if c.Progressive, err = optionalBool(v, "is_progressive"); err != nil {
		return c, err
	}
	if item := lookup(v, "item"); item.Exists() {
		if c.Item, err = item.String(); err != nil {
			return c, &CompileError{Field: "item", Message: "must be a string", Pos: item.Pos()}
		}
	}

	if conds := lookup(v, "conditions"); conds.Exists() {
		if c.Conditions, err = CompileConditions(conds); err != nil {
			return c, err
		}
	}

	// Without conditions the legacy rule needs somewhere to look.
	if !c.HasConditions() {
		if !c.HasOffset {
			return c, &CompileError{Field: "sram_offset", Message: "sram_offset is required without conditions", Pos: v.Pos()}
		}
		if !c.Progressive && c.Mask == 0 {
			return c, &CompileError{Field: "sram_mask", Message: "sram_mask is required without conditions", Pos: v.Pos()}
		}
	}
	return c, nil
}

// CompileTile parses one tile entry.
//
//	{id: 12, name: "Link's House", region: "Light World",
//	 indoors: true, address_value: ["0x0104"]}
func CompileTile(v cue.Value) (ir.Tile, error) {
	if err := v.Err(); err != nil {
		return ir.Tile{}, formatCUEError(err)
	}
	t := ir.Tile{}
	var err error
	if t.ID, err = requiredInt(v, "id", 0xFFFF); err != nil {
		return t, err
	}
	if t.Name, err = name(v); err != nil {
		return t, err
	}
	if region := lookup(v, "region"); region.Exists() {
		if t.Region, err = region.String(); err != nil {
			return t, &CompileError{Field: "region", Message: "must be a string", Pos: region.Pos()}
		}
	}
	if t.Indoors, err = optionalBool(v, "indoors"); err != nil {
		return t, err
	}
	if t.AddressValues, err = addressValues(v); err != nil {
		return t, err
	}
	if conds := lookup(v, "conditions"); conds.Exists() {
		if t.Conditions, err = CompileConditions(conds); err != nil {
			return t, err
		}
	}
	return t, nil
}

func addressValues(v cue.Value) ([]uint16, error) {
	f := lookup(v, "address_value")
	if !f.Exists() {
		return nil, &CompileError{Field: "address_value", Message: "address_value is required", Pos: v.Pos()}
	}
	if f.IncompleteKind() != cue.ListKind {
		n, err := number(f, "address_value", 0xFFFF)
		return []uint16{uint16(n)}, err
	}
	iter, err := f.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []uint16
	for iter.Next() {
		n, err := number(iter.Value(), "address_value", 0xFFFF)
		if err != nil {
			return nil, err
		}
		out = append(out, uint16(n))
	}
	if len(out) == 0 {
		return nil, &CompileError{Field: "address_value", Message: "address_value must not be empty", Pos: f.Pos()}
	}
	return out, nil
}
