// Package eventlog holds the append-only log of detected events and the
// queries conditions and timing run against it.
package eventlog

import (
	"errors"
	"time"

	"github.com/roach88/autotimer/internal/ir"
)

// ErrNoTransition is returned when the log has no transition at all. A
// Tracker built with New always has one, so this indicates a broken
// invariant rather than a recoverable state.
var ErrNoTransition = errors.New("event log has no transition")

type kindID struct {
	kind ir.EventKind
	id   int
}

// Tracker is the append-only event log.
//
// Latest-by-kind, first-by-id and per-id counts are indexed on push, so the
// queries conditions run every poll are O(1). Not safe for concurrent use.
type Tracker struct {
	log    []ir.Event
	latest map[ir.EventKind]int
	first  map[kindID]int
	counts map[kindID]int
}

// New returns a tracker seeded with the synthetic start transition, so
// LatestTransition is defined from the first poll on.
func New(at time.Time) *Tracker {
	t := empty()
	t.Push(ir.NewTransition(ir.StartTile(at)))
	return t
}

// FromEvents builds a tracker over an existing log without seeding it.
func FromEvents(events []ir.Event) *Tracker {
	t := empty()
	for _, e := range events {
		t.Push(e)
	}
	return t
}

func empty() *Tracker {
	return &Tracker{
		latest: make(map[ir.EventKind]int),
		first:  make(map[kindID]int),
		counts: make(map[kindID]int),
	}
}

// Push appends an event.
func (t *Tracker) Push(e ir.Event) {
	idx := len(t.log)
	t.log = append(t.log, e)
	t.latest[e.Kind] = idx
	key := kindID{e.Kind, e.ID()}
	if _, ok := t.first[key]; !ok {
		t.first[key] = idx
	}
	t.counts[key]++
}

// Len returns the number of events logged.
func (t *Tracker) Len() int { return len(t.log) }

// Events returns a copy of the log in append order.
func (t *Tracker) Events() []ir.Event {
	out := make([]ir.Event, len(t.log))
	copy(out, t.log)
	return out
}

func (t *Tracker) latestOf(kind ir.EventKind) (ir.Event, bool) {
	idx, ok := t.latest[kind]
	if !ok {
		return ir.Event{}, false
	}
	return t.log[idx], true
}

func (t *Tracker) latestCheck(kind ir.EventKind) (ir.Check, bool) {
	e, ok := t.latestOf(kind)
	if !ok {
		return ir.Check{}, false
	}
	return *e.Check, true
}

// LatestTransition returns the tile of the most recent transition.
func (t *Tracker) LatestTransition() (ir.Tile, bool) {
	e, ok := t.latestOf(ir.EventTransition)
	if !ok {
		return ir.Tile{}, false
	}
	return *e.Tile, true
}

// MustLatestTransition is LatestTransition for callers that rely on the
// seeded start transition. It returns ErrNoTransition instead of a zero tile.
func (t *Tracker) MustLatestTransition() (ir.Tile, error) {
	tile, ok := t.LatestTransition()
	if !ok {
		return ir.Tile{}, ErrNoTransition
	}
	return tile, nil
}

func (t *Tracker) LatestLocationCheck() (ir.Check, bool) {
	return t.latestCheck(ir.EventLocationCheck)
}

func (t *Tracker) LatestItemGet() (ir.Check, bool) {
	return t.latestCheck(ir.EventItemGet)
}

func (t *Tracker) LatestOther() (ir.Check, bool) {
	return t.latestCheck(ir.EventOther)
}

func (t *Tracker) LatestAction() (ir.Check, bool) {
	return t.latestCheck(ir.EventAction)
}

// LatestObjective returns the most recent event that counts for timing.
func (t *Tracker) LatestObjective() (ir.Event, bool) {
	for i := len(t.log) - 1; i >= 0; i-- {
		if t.log[i].Objective() {
			return t.log[i], true
		}
	}
	return ir.Event{}, false
}

func (t *Tracker) find(kind ir.EventKind, id int) (ir.Check, bool) {
	idx, ok := t.first[kindID{kind, id}]
	if !ok {
		return ir.Check{}, false
	}
	return *t.log[idx].Check, true
}

// FindOther returns the first Other event with the given id.
func (t *Tracker) FindOther(id int) (ir.Check, bool) {
	return t.find(ir.EventOther, id)
}

// FindLocationCheck returns the first location check with the given id.
func (t *Tracker) FindLocationCheck(id int) (ir.Check, bool) {
	return t.find(ir.EventLocationCheck, id)
}

// FindItemGet returns the first item get with the given id.
func (t *Tracker) FindItemGet(id int) (ir.Check, bool) {
	return t.find(ir.EventItemGet, id)
}

// Count returns how many events of kind carry id.
func (t *Tracker) Count(kind ir.EventKind, id int) int {
	return t.counts[kindID{kind, id}]
}

func (t *Tracker) withID(kind ir.EventKind, id int) []ir.Check {
	if t.Count(kind, id) == 0 {
		return nil
	}
	var out []ir.Check
	for i := t.first[kindID{kind, id}]; i < len(t.log); i++ {
		e := t.log[i]
		if e.Kind == kind && e.ID() == id {
			out = append(out, *e.Check)
		}
	}
	return out
}

func (t *Tracker) OthersWithID(id int) []ir.Check {
	return t.withID(ir.EventOther, id)
}

func (t *Tracker) ItemsWithID(id int) []ir.Check {
	return t.withID(ir.EventItemGet, id)
}

func (t *Tracker) LocationChecksWithID(id int) []ir.Check {
	return t.withID(ir.EventLocationCheck, id)
}

// ObjectivesBetween returns the objective events from start (inclusive) up
// to end (exclusive). A nil end runs to the end of the log. If start is not
// in the log the result is empty.
func (t *Tracker) ObjectivesBetween(start ir.Event, end *ir.Event) []ir.Event {
	var out []ir.Event
	started := false
	for _, e := range t.log {
		if !started {
			if !e.Same(start) {
				continue
			}
			started = true
		}
		if end != nil && e.Same(*end) {
			break
		}
		if e.Objective() {
			out = append(out, e)
		}
	}
	return out
}
