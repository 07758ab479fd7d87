package eventlog

import (
	"strings"

	"github.com/roach88/autotimer/internal/ir"
)

// Group is one or more events that happened on the same poll.
type Group struct {
	Name   string
	Events []ir.Event
}

// Compact folds consecutive check events (locations, items, other events)
// sharing a timestamp into one group named "A & B". Picking up an item from
// a chest reports both on the same poll; for display they are one objective.
// Transitions and actions always stand alone.
func Compact(events []ir.Event) []Group {
	var out []Group
	merging := false
	for _, e := range events {
		isCheck := e.Kind == ir.EventLocationCheck || e.Kind == ir.EventItemGet || e.Kind == ir.EventOther
		if isCheck && merging {
			last := &out[len(out)-1]
			prev := last.Events[len(last.Events)-1]
			if prev.Timestamp().Equal(e.Timestamp()) {
				last.Events = append(last.Events, e)
				last.Name = joinNames(last.Events)
				continue
			}
		}
		out = append(out, Group{Name: e.Name(), Events: []ir.Event{e}})
		merging = isCheck
	}
	return out
}

func joinNames(events []ir.Event) string {
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name()
	}
	return strings.Join(names, " & ")
}
