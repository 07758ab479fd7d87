package eventlog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/autotimer/internal/ir"
)

func TestCompact(t *testing.T) {
	events := []ir.Event{
		ir.NewTransition(ir.Tile{ID: 1, Name: "Link's House", At: at(0)}),
		ir.NewLocationCheck(check(10, "Link's House Chest", 100)),
		ir.NewItemGet(check(20, "Lamp", 100)),
		ir.NewOther(check(30, "Lamp Lit", 100)),
		ir.NewItemGet(check(21, "Bombs", 200)),
		ir.NewAction(check(40, "Bonk", 200)),
		ir.NewItemGet(check(22, "Arrows", 200)),
	}

	groups := Compact(events)

	var names []string
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{
		"Link's House",
		"Link's House Chest & Lamp & Lamp Lit",
		"Bombs",
		"Bonk",
		"Arrows",
	}, names)
	assert.Len(t, groups[1].Events, 3)
}

func TestCompact_Empty(t *testing.T) {
	assert.Empty(t, Compact(nil))
}
