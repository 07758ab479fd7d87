package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord_PopulatesOneID(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_123)
	check := Check{ID: 42, Name: "Mushroom", CheckedAt: at}

	tests := []struct {
		name  string
		event Event
		field func(Record) *int
	}{
		{"transition", NewTransition(Tile{ID: 42, Indoors: true, At: at}), func(r Record) *int { return r.TileID }},
		{"location", NewLocationCheck(check), func(r Record) *int { return r.LocationID }},
		{"item", NewItemGet(check), func(r Record) *int { return r.ItemID }},
		{"other", NewOther(check), func(r Record) *int { return r.EventID }},
		{"action", NewAction(check), func(r Record) *int { return r.ActionID }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecord(tt.event, "session-1", 7)
			require.NoError(t, err)

			assert.Equal(t, int64(7), r.Seq)
			assert.Equal(t, "session-1", r.SessionID)
			assert.Equal(t, tt.event.Kind.String(), r.Kind)
			assert.Equal(t, int64(1_700_000_000_123), r.Timestamp)
			require.NotNil(t, tt.field(r))
			assert.Equal(t, 42, *tt.field(r))
			assert.Equal(t, 42, r.EntityID())

			set := 0
			for _, p := range []*int{r.TileID, r.LocationID, r.ItemID, r.EventID, r.ActionID} {
				if p != nil {
					set++
				}
			}
			assert.Equal(t, 1, set)

			if tt.event.Kind == EventTransition {
				require.NotNil(t, r.Indoors)
				assert.True(t, *r.Indoors)
			} else {
				assert.Nil(t, r.Indoors)
			}
		})
	}
}

func TestNewRecord_Errors(t *testing.T) {
	_, err := NewRecord(NewOther(Check{ID: 1}), "s", 1)
	assert.ErrorContains(t, err, "missing timestamp")

	_, err = NewRecord(Event{Kind: EventKind(99), Check: &Check{CheckedAt: time.Unix(1, 0)}}, "s", 1)
	assert.ErrorContains(t, err, "unknown event kind")
}

func TestRecord_MarshalCanonical(t *testing.T) {
	at := time.UnixMilli(1000)
	r, err := NewRecord(NewTransition(Tile{ID: 9000, At: at}), "abc", 1)
	require.NoError(t, err)

	got, err := r.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"indoors":false,"kind":"transition","seq":1,"session_id":"abc","tile_id":9000,"timestamp":1000}`,
		string(got))

	assert.Equal(t, at.UTC(), r.Time())
}

func TestRecordHash_Stable(t *testing.T) {
	at := time.UnixMilli(5)
	r1, err := NewRecord(NewItemGet(Check{ID: 2, CheckedAt: at}), "s", 3)
	require.NoError(t, err)
	r2 := r1

	h1, err := RecordHash(r1)
	require.NoError(t, err)
	h2, err := RecordHash(r2)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	r2.Seq = 4
	h3, err := RecordHash(r2)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestDataHash_OrderAndBoundaries(t *testing.T) {
	assert.Equal(t, DataHash([]byte("a"), []byte("b")), DataHash([]byte("a"), []byte("b")))
	assert.NotEqual(t, DataHash([]byte("a"), []byte("b")), DataHash([]byte("b"), []byte("a")))
	assert.NotEqual(t, DataHash([]byte("ab")), DataHash([]byte("a"), []byte("b")))
}

func TestNewRecord_TransitionName(t *testing.T) {
	at := time.UnixMilli(2000)
	r, err := NewRecord(NewTransition(Tile{ID: 20, Name: "Kakariko Village", At: at}), "abc", 2)
	require.NoError(t, err)
	assert.Equal(t, "Kakariko Village", r.Name)

	got, err := r.MarshalCanonical()
	require.NoError(t, err)
	assert.Contains(t, string(got), `"name":"Kakariko Village"`)

	r, err = NewRecord(NewItemGet(Check{ID: 2, Name: "Bow", CheckedAt: at}), "abc", 3)
	require.NoError(t, err)
	assert.Empty(t, r.Name)
}
