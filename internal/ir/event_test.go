package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Accessors(t *testing.T) {
	at := time.Unix(50, 0)
	tr := NewTransition(Tile{ID: 12, Name: "Link's House", At: at})
	assert.Equal(t, EventTransition, tr.Kind)
	assert.Equal(t, 12, tr.ID())
	assert.Equal(t, "Link's House", tr.Name())
	assert.Equal(t, at, tr.Timestamp())
	assert.True(t, tr.Objective())

	c := Check{ID: 7, Name: "Uncle", CheckedAt: at}
	assert.Equal(t, EventLocationCheck, NewLocationCheck(c).Kind)
	assert.Equal(t, EventItemGet, NewItemGet(c).Kind)
	assert.Equal(t, EventOther, NewOther(c).Kind)

	action := NewAction(c)
	assert.Equal(t, EventAction, action.Kind)
	assert.False(t, action.Objective())

	var zero Event
	assert.Equal(t, 0, zero.ID())
	assert.Equal(t, "", zero.Name())
	assert.True(t, zero.Timestamp().IsZero())
}

func TestEvent_HoldsCopy(t *testing.T) {
	c := Check{ID: 1, Name: "Mushroom"}
	e := NewLocationCheck(c)
	c.MarkChecked(time.Unix(1, 0))

	assert.False(t, e.Check.Checked)
}

func TestEventFor(t *testing.T) {
	tests := []struct {
		kind CheckKind
		want EventKind
	}{
		{KindLocation, EventLocationCheck},
		{KindItem, EventItemGet},
		{KindEvent, EventOther},
		{KindAction, EventAction},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EventFor(Check{Kind: tt.kind}).Kind, tt.kind.String())
	}
}

func TestEvent_Same(t *testing.T) {
	at := time.Unix(9, 0)
	a := NewOther(Check{ID: 3, CheckedAt: at})
	b := NewOther(Check{ID: 3, Name: "renamed", CheckedAt: at})
	c := NewOther(Check{ID: 3, CheckedAt: at.Add(time.Millisecond)})
	d := NewItemGet(Check{ID: 3, CheckedAt: at})

	assert.True(t, a.Same(b))
	assert.False(t, a.Same(c))
	assert.False(t, a.Same(d))
}

func TestStartTile(t *testing.T) {
	at := time.Unix(1, 0)
	tile := StartTile(at)
	assert.Equal(t, StartTileID, tile.ID)
	assert.Equal(t, StartTileName, tile.Name)
	assert.Equal(t, at, tile.At)
	require.True(t, tile.Resolves(0))
	assert.False(t, tile.Resolves(1))
}

func TestParseEventKind(t *testing.T) {
	for _, k := range []EventKind{EventTransition, EventLocationCheck, EventItemGet, EventOther, EventAction} {
		got, ok := ParseEventKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseEventKind("unknown")
	assert.False(t, ok)
}
