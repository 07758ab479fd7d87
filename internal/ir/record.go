package ir

import (
	"fmt"
	"time"
)

// Record is the serialized form of an Event handed to the event sink.
//
// Exactly one of the id fields is set, depending on the event kind.
// Indoors and Name are only populated for transitions.
type Record struct {
	Seq        int64  `json:"seq"`
	SessionID  string `json:"session_id"`
	Kind       string `json:"kind"`
	Timestamp  int64  `json:"timestamp"` // unix milliseconds
	Indoors    *bool  `json:"indoors,omitempty"`
	Name       string `json:"name,omitempty"`
	TileID     *int   `json:"tile_id,omitempty"`
	LocationID *int   `json:"location_id,omitempty"`
	ItemID     *int   `json:"item_id,omitempty"`
	EventID    *int   `json:"event_id,omitempty"`
	ActionID   *int   `json:"action_id,omitempty"`
}

// NewRecord serializes e. Returns an error for events missing a timestamp,
// which would otherwise be written as the unix epoch.
func NewRecord(e Event, sessionID string, seq int64) (Record, error) {
	at := e.Timestamp()
	if at.IsZero() {
		return Record{}, fmt.Errorf("record %s %d: missing timestamp", e.Kind, e.ID())
	}
	r := Record{
		Seq:       seq,
		SessionID: sessionID,
		Kind:      e.Kind.String(),
		Timestamp: at.UnixMilli(),
	}
	id := e.ID()
	switch e.Kind {
	case EventTransition:
		indoors := e.Tile.Indoors
		r.Indoors = &indoors
		r.Name = e.Tile.Name
		r.TileID = &id
	case EventLocationCheck:
		r.LocationID = &id
	case EventItemGet:
		r.ItemID = &id
	case EventOther:
		r.EventID = &id
	case EventAction:
		r.ActionID = &id
	default:
		return Record{}, fmt.Errorf("record: unknown event kind %d", e.Kind)
	}
	return r, nil
}

// Time returns the record timestamp.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp).UTC()
}

// EntityID returns whichever id field is populated.
func (r Record) EntityID() int {
	for _, p := range []*int{r.TileID, r.LocationID, r.ItemID, r.EventID, r.ActionID} {
		if p != nil {
			return *p
		}
	}
	return 0
}

// Map returns the record as a plain map for canonical marshaling.
// Absent optional fields are omitted.
func (r Record) Map() map[string]any {
	m := map[string]any{
		"seq":        r.Seq,
		"session_id": r.SessionID,
		"kind":       r.Kind,
		"timestamp":  r.Timestamp,
	}
	if r.Indoors != nil {
		m["indoors"] = *r.Indoors
	}
	if r.Name != "" {
		m["name"] = r.Name
	}
	ids := map[string]*int{
		"tile_id":     r.TileID,
		"location_id": r.LocationID,
		"item_id":     r.ItemID,
		"event_id":    r.EventID,
		"action_id":   r.ActionID,
	}
	for k, v := range ids {
		if v != nil {
			m[k] = *v
		}
	}
	return m
}

// MarshalCanonical returns the record as canonical JSON.
func (r Record) MarshalCanonical() ([]byte, error) {
	return MarshalCanonical(r.Map())
}
