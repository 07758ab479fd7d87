package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/autotimer/internal/ir"
)

func compileValue(t *testing.T, src string) cue.Value {
	t.Helper()
	v := cuecontext.New().CompileString(src, cue.Filename("test.cue"))
	require.NoError(t, v.Err())
	return v.LookupPath(cue.ParsePath("entry"))
}

func TestCompileCheckLegacy(t *testing.T) {
	v := compileValue(t, `
		entry: {
			id: 1
			name: "Mushroom"
			sram_offset: "0xf411"
			sram_mask: "0x10"
		}
	`)

	c, err := CompileCheck(v, ir.KindLocation)
	require.NoError(t, err)

	assert.Equal(t, 1, c.ID)
	assert.Equal(t, "Mushroom", c.Name)
	assert.Equal(t, ir.KindLocation, c.Kind)
	assert.Equal(t, 0xF411, c.Offset)
	assert.True(t, c.HasOffset)
	assert.Equal(t, uint8(0x10), c.Mask)
	assert.False(t, c.HasConditions())
	assert.False(t, c.Checked)
}

func TestCompileCheckProgressiveWithConditions(t *testing.T) {
	v := compileValue(t, `
		entry: {
			id: 2
			name: "Overworld Mirror"
			sram_offset: "0xf43a"
			sram_mask: "0xff"
			is_progressive: true
			conditions: [
				{type: "ValueChanged", offset: "0xf43a"},
				{type: "Not", conditions: [{type: "Underworld"}]},
			]
		}
	`)

	c, err := CompileCheck(v, ir.KindEvent)
	require.NoError(t, err)

	assert.True(t, c.Progressive)
	require.Len(t, c.Conditions, 2)
	assert.Equal(t, ir.CondValueChanged, c.Conditions[0].Kind)
	assert.Equal(t, ir.FullMask, c.Conditions[0].Mask)
	assert.Equal(t, ir.CondNot, c.Conditions[1].Kind)
	require.Len(t, c.Conditions[1].Sub, 1)
	assert.Equal(t, ir.CondUnderworld, c.Conditions[1].Sub[0].Kind)
}

func TestCompileCheckOffsetZero(t *testing.T) {
	v := compileValue(t, `entry: {id: 5, name: "Game Start", sram_offset: "0x0", sram_mask: "0x01"}`)

	c, err := CompileCheck(v, ir.KindEvent)
	require.NoError(t, err)
	assert.True(t, c.HasOffset)
	assert.Equal(t, 0, c.Offset)

	v = compileValue(t, `entry: {id: 6, name: "Dash", conditions: []}`)
	c, err = CompileCheck(v, ir.KindAction)
	require.NoError(t, err)
	assert.False(t, c.HasOffset)
}

func TestCompileCheckEmptyConditionsUsesDeclarativePath(t *testing.T) {
	v := compileValue(t, `entry: {id: 3, name: "Always", conditions: []}`)

	c, err := CompileCheck(v, ir.KindEvent)
	require.NoError(t, err)
	assert.True(t, c.HasConditions())
	assert.Empty(t, c.Conditions)
}

func TestCompileCheckNormalizesName(t *testing.T) {
	v := compileValue(t, "entry: {id: 4, name: \"  Cafe\u0301 \", sram_offset: 0xF411, sram_mask: 1}")

	c, err := CompileCheck(v, ir.KindItem)
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9", c.Name)
}

func TestCompileCheckErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
		msg   string
	}{
		{"missing id", `entry: {name: "x", sram_offset: "0xf411", sram_mask: "0x1"}`, "id", "id is required"},
		{"missing name", `entry: {id: 1, sram_offset: "0xf411", sram_mask: "0x1"}`, "name", "name is required"},
		{"empty name", `entry: {id: 1, name: " ", sram_offset: "0xf411", sram_mask: "0x1"}`, "name", "non-empty"},
		{"bad hex", `entry: {id: 1, name: "x", sram_offset: "0xzz", sram_mask: "0x1"}`, "sram_offset", "invalid hex literal"},
		{"hex without prefix", `entry: {id: 1, name: "x", sram_offset: "f411", sram_mask: "0x1"}`, "sram_offset", "missing 0x prefix"},
		{"unmapped offset", `entry: {id: 1, name: "x", sram_offset: "0x5000", sram_mask: "0x1"}`, "sram_offset", "outside the captured memory"},
		{"mask too wide", `entry: {id: 1, name: "x", sram_offset: "0xf411", sram_mask: "0x100"}`, "sram_mask", "exceeds"},
		{"negative id", `entry: {id: -1, name: "x", sram_offset: "0xf411", sram_mask: "0x1"}`, "id", "non-negative"},
		{"no rule", `entry: {id: 1, name: "x"}`, "sram_offset", "required without conditions"},
		{"no mask", `entry: {id: 1, name: "x", sram_offset: "0xf411"}`, "sram_mask", "required without conditions"},
		{"progressive flag", `entry: {id: 1, name: "x", sram_offset: "0xf411", is_progressive: "yes"}`, "is_progressive", "must be a bool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileCheck(compileValue(t, tt.src), ir.KindLocation)
			require.Error(t, err)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
			assert.Contains(t, ce.Message, tt.msg)
			assert.True(t, ce.Pos.IsValid(), "error should carry a position")
		})
	}
}

func TestCompileErrorFormat(t *testing.T) {
	_, err := CompileCheck(compileValue(t, `entry: {id: 1, name: "x", sram_offset: "0xzz", sram_mask: 1}`), ir.KindLocation)
	require.Error(t, err)
	assert.Regexp(t, `^test\.cue:\d+:\d+: sram_offset: invalid hex literal`, err.Error())

	plain := &CompileError{Field: "f", Message: "m"}
	assert.Equal(t, "f: m", plain.Error())
}

func TestCompileTile(t *testing.T) {
	v := compileValue(t, `
		entry: {
			id: 21
			name: "Hyrule Castle - Key Guard 1"
			region: "Hyrule Castle"
			indoors: true
			address_value: ["0x3", "0x4", 5]
			conditions: [{
				type: "Coordinates"
				coordinates: [
					{type: "Range", x: "1273", y: "3664-3665"},
					{type: "Pair", x: 1272, y: "3800"},
				]
			}]
		}
	`)

	tile, err := CompileTile(v)
	require.NoError(t, err)
	assert.Equal(t, 21, tile.ID)
	assert.Equal(t, "Hyrule Castle", tile.Region)
	assert.True(t, tile.Indoors)
	assert.Equal(t, []uint16{3, 4, 5}, tile.AddressValues)
	require.Len(t, tile.Conditions, 1)
	coords := tile.Conditions[0].Coordinates
	require.Len(t, coords, 2)
	assert.Equal(t, [2]uint16{1273, 1273}, coords[0].XRange)
	assert.Equal(t, [2]uint16{3664, 3665}, coords[0].YRange)
	assert.Equal(t, ir.Pair(1272, 3800), coords[1])
}

func TestCompileTileAddressValue(t *testing.T) {
	tile, err := CompileTile(compileValue(t, `entry: {id: 1, name: "Field", address_value: "0x2c"}`))
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x2C}, tile.AddressValues)
	assert.False(t, tile.Indoors)

	_, err = CompileTile(compileValue(t, `entry: {id: 1, name: "Field", address_value: []}`))
	assert.ErrorContains(t, err, "must not be empty")

	_, err = CompileTile(compileValue(t, `entry: {id: 1, name: "Field"}`))
	assert.ErrorContains(t, err, "address_value is required")
}
