package eventlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/autotimer/internal/ir"
)

var t0 = time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func check(id int, name string, ms int) ir.Check {
	return ir.Check{ID: id, Name: name, Checked: true, CheckedAt: at(ms)}
}

func TestNew_SeedsStartTransition(t *testing.T) {
	tr := New(t0)

	assert.Equal(t, 1, tr.Len())
	tile, ok := tr.LatestTransition()
	require.True(t, ok)
	assert.Equal(t, ir.StartTileID, tile.ID)
	assert.Equal(t, ir.StartTileName, tile.Name)
	assert.Equal(t, t0, tile.At)

	_, ok = tr.LatestLocationCheck()
	assert.False(t, ok)
	_, ok = tr.LatestItemGet()
	assert.False(t, ok)
	_, ok = tr.LatestOther()
	assert.False(t, ok)
	_, ok = tr.LatestAction()
	assert.False(t, ok)
}

func TestFromEvents_NoSeed(t *testing.T) {
	tr := FromEvents(nil)
	_, err := tr.MustLatestTransition()
	assert.ErrorIs(t, err, ErrNoTransition)

	tr = FromEvents([]ir.Event{ir.NewTransition(ir.Tile{ID: 3, At: at(1)})})
	tile, err := tr.MustLatestTransition()
	require.NoError(t, err)
	assert.Equal(t, 3, tile.ID)
}

func TestTracker_LatestByKind(t *testing.T) {
	tr := New(t0)
	tr.Push(ir.NewLocationCheck(check(1, "Uncle", 10)))
	tr.Push(ir.NewItemGet(check(20, "Fighter Sword", 10)))
	tr.Push(ir.NewTransition(ir.Tile{ID: 55, Name: "Hyrule Castle Secret Entrance", At: at(20)}))
	tr.Push(ir.NewLocationCheck(check(2, "Secret Passage", 30)))
	tr.Push(ir.NewOther(check(4, "Zelda Rescued", 40)))
	tr.Push(ir.NewAction(check(8, "Bonk", 50)))

	loc, ok := tr.LatestLocationCheck()
	require.True(t, ok)
	assert.Equal(t, 2, loc.ID)

	item, ok := tr.LatestItemGet()
	require.True(t, ok)
	assert.Equal(t, 20, item.ID)

	tile, ok := tr.LatestTransition()
	require.True(t, ok)
	assert.Equal(t, 55, tile.ID)

	other, ok := tr.LatestOther()
	require.True(t, ok)
	assert.Equal(t, 4, other.ID)

	action, ok := tr.LatestAction()
	require.True(t, ok)
	assert.Equal(t, 8, action.ID)

	obj, ok := tr.LatestObjective()
	require.True(t, ok)
	assert.Equal(t, ir.EventOther, obj.Kind)
}

func TestTracker_FindAndCount(t *testing.T) {
	tr := New(t0)
	tr.Push(ir.NewItemGet(check(3, "Bottle", 10)))
	tr.Push(ir.NewLocationCheck(check(1, "Uncle", 15)))
	tr.Push(ir.NewItemGet(check(3, "Bottle", 20)))
	tr.Push(ir.NewOther(check(0, "Reset", 30)))

	first, ok := tr.FindItemGet(3)
	require.True(t, ok)
	assert.Equal(t, at(10), first.CheckedAt)

	_, ok = tr.FindLocationCheck(1)
	assert.True(t, ok)
	_, ok = tr.FindLocationCheck(3)
	assert.False(t, ok)
	_, ok = tr.FindOther(0)
	assert.True(t, ok)

	assert.Equal(t, 2, tr.Count(ir.EventItemGet, 3))
	assert.Equal(t, 0, tr.Count(ir.EventOther, 3))
	assert.Len(t, tr.ItemsWithID(3), 2)
	assert.Len(t, tr.LocationChecksWithID(1), 1)
	assert.Len(t, tr.OthersWithID(0), 1)
	assert.Nil(t, tr.OthersWithID(99))
}

func TestTracker_EventsIsCopy(t *testing.T) {
	tr := New(t0)
	events := tr.Events()
	events[0] = ir.Event{}

	tile, ok := tr.LatestTransition()
	require.True(t, ok)
	assert.Equal(t, ir.StartTileID, tile.ID)
}

func TestTracker_ObjectivesBetween(t *testing.T) {
	tr := New(t0)
	start := ir.NewOther(check(1, "Start", 10))
	mid := ir.NewLocationCheck(check(2, "Uncle", 20))
	action := ir.NewAction(check(3, "Dash", 25))
	end := ir.NewOther(check(5, "Ganon", 30))
	tr.Push(start)
	tr.Push(mid)
	tr.Push(action)
	tr.Push(end)

	got := tr.ObjectivesBetween(start, &end)
	require.Len(t, got, 2)
	assert.True(t, got[0].Same(start))
	assert.True(t, got[1].Same(mid))

	all := tr.ObjectivesBetween(start, nil)
	assert.Len(t, all, 3)

	missing := ir.NewOther(check(9, "Missing", 99))
	assert.Empty(t, tr.ObjectivesBetween(missing, nil))
}
