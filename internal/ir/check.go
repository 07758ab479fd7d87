package ir

import "time"

// CheckKind tells which declarative list a Check was loaded from.
type CheckKind int

const (
	KindLocation CheckKind = iota + 1
	KindItem
	KindEvent
	KindAction
)

func (k CheckKind) String() string {
	switch k {
	case KindLocation:
		return "location"
	case KindItem:
		return "item"
	case KindEvent:
		return "event"
	case KindAction:
		return "action"
	}
	return "unknown"
}

// Check is a trackable entity: a location, an item, a story event or an
// action. It carries both its detection rule and its mutable state.
//
// When Conditions is non-nil it supersedes the legacy Offset/Mask rule.
type Check struct {
	ID   int       `json:"id"`
	Name string    `json:"name"`
	Kind CheckKind `json:"kind"`

	// Offset and Mask drive legacy detection and, for progressive checks,
	// the byte read as the new level. HasOffset tells offset 0x0 apart from
	// no offset at all.
	Offset    int   `json:"sram_offset,omitempty"`
	HasOffset bool  `json:"-"`
	Mask      uint8 `json:"sram_mask,omitempty"`

	Conditions  []Condition `json:"-"`
	Progressive bool        `json:"is_progressive,omitempty"`
	Item        string      `json:"item,omitempty"`

	// Mutable state.
	Checked          bool      `json:"is_checked"`
	ProgressiveLevel uint8     `json:"progressive_level,omitempty"`
	Count            int       `json:"count,omitempty"`
	CheckedAt        time.Time `json:"time_of_check,omitempty"`
}

// HasConditions reports whether the declarative detection path applies.
func (c *Check) HasConditions() bool {
	return c.Conditions != nil
}

// MarkChecked flips a non-progressive check to checked.
// Returns false if it was already checked; the timestamp is not touched then.
func (c *Check) MarkChecked(at time.Time) bool {
	if c.Checked {
		return false
	}
	c.Checked = true
	c.CheckedAt = at
	return true
}

// Progress records a new progressive level read from memory.
//
// The level never decreases and a value at or below the current level
// leaves the check untouched. Returns true when the level increased.
func (c *Check) Progress(value uint8, at time.Time) bool {
	if value <= c.ProgressiveLevel {
		return false
	}
	c.ProgressiveLevel = value
	c.CheckedAt = at
	return true
}

// Occur records one more occurrence of a progressive check that has no
// level byte. Every occurrence counts.
func (c *Check) Occur(at time.Time) bool {
	c.Count++
	c.CheckedAt = at
	return true
}

// Reset returns the check to its freshly loaded state.
func (c *Check) Reset() {
	c.Checked = false
	c.ProgressiveLevel = 0
	c.Count = 0
	c.CheckedAt = time.Time{}
}

// Clone returns a copy suitable for storing in the event log. Conditions are
// shared because they are never mutated after compilation.
func (c Check) Clone() Check {
	return c
}

// CloneChecks copies a list of checks, preserving order.
func CloneChecks(checks []Check) []Check {
	if checks == nil {
		return nil
	}
	out := make([]Check, len(checks))
	copy(out, checks)
	return out
}
