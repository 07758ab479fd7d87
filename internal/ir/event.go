package ir

import "time"

// EventKind tags an Event.
type EventKind int

const (
	EventTransition EventKind = iota + 1
	EventLocationCheck
	EventItemGet
	EventOther
	EventAction
)

func (k EventKind) String() string {
	switch k {
	case EventTransition:
		return "transition"
	case EventLocationCheck:
		return "location_check"
	case EventItemGet:
		return "item_get"
	case EventOther:
		return "other"
	case EventAction:
		return "action"
	}
	return "unknown"
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(s string) (EventKind, bool) {
	for k := EventTransition; k <= EventAction; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Event is one entry of the event log. Exactly one of Tile (transitions) or
// Check (everything else) is set; both hold copies taken at append time.
type Event struct {
	Kind  EventKind
	Tile  *Tile
	Check *Check
}

// NewTransition wraps a copy of t.
func NewTransition(t Tile) Event {
	return Event{Kind: EventTransition, Tile: &t}
}

// NewLocationCheck wraps a copy of c.
func NewLocationCheck(c Check) Event {
	return Event{Kind: EventLocationCheck, Check: &c}
}

// NewItemGet wraps a copy of c.
func NewItemGet(c Check) Event {
	return Event{Kind: EventItemGet, Check: &c}
}

// NewOther wraps a copy of c.
func NewOther(c Check) Event {
	return Event{Kind: EventOther, Check: &c}
}

// NewAction wraps a copy of c.
func NewAction(c Check) Event {
	return Event{Kind: EventAction, Check: &c}
}

// EventFor wraps c in the event kind matching its check kind.
func EventFor(c Check) Event {
	switch c.Kind {
	case KindItem:
		return NewItemGet(c)
	case KindEvent:
		return NewOther(c)
	case KindAction:
		return NewAction(c)
	}
	return NewLocationCheck(c)
}

// ID returns the tile or check id.
func (e Event) ID() int {
	if e.Tile != nil {
		return e.Tile.ID
	}
	if e.Check != nil {
		return e.Check.ID
	}
	return 0
}

// Name returns the tile or check name.
func (e Event) Name() string {
	if e.Tile != nil {
		return e.Tile.Name
	}
	if e.Check != nil {
		return e.Check.Name
	}
	return ""
}

// Timestamp returns when the event happened.
func (e Event) Timestamp() time.Time {
	if e.Tile != nil {
		return e.Tile.At
	}
	if e.Check != nil {
		return e.Check.CheckedAt
	}
	return time.Time{}
}

// Objective reports whether the event counts towards run timing.
// Actions are diagnostic only.
func (e Event) Objective() bool {
	return e.Kind != EventAction
}

// Same reports whether two events describe the same occurrence: same kind,
// id and timestamp.
func (e Event) Same(other Event) bool {
	return e.Kind == other.Kind && e.ID() == other.ID() && e.Timestamp().Equal(other.Timestamp())
}
