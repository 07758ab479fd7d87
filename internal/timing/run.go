package timing

import (
	"time"

	"github.com/roach88/autotimer/internal/ir"
)

// Split is one objective reached during a run.
type Split struct {
	Kind ir.EventKind
	ID   int
	Name string
	At   time.Time
}

// SplitOf captures an event as a split.
func SplitOf(e ir.Event) Split {
	return Split{Kind: e.Kind, ID: e.ID(), Name: e.Name(), At: e.Timestamp()}
}

// RunRecord is the ordered sequence of splits of one completed run or
// segment.
type RunRecord struct {
	Session string
	Splits  []Split
}

// FromEvents builds a run from the objective events among events, in order.
func FromEvents(session string, events []ir.Event) RunRecord {
	r := RunRecord{Session: session}
	for _, e := range events {
		if e.Objective() {
			r.Splits = append(r.Splits, SplitOf(e))
		}
	}
	return r
}

// Len returns the number of splits.
func (r RunRecord) Len() int { return len(r.Splits) }

// Duration is the time from the first split to the last. ok is false for
// a run without splits.
func (r RunRecord) Duration() (d time.Duration, ok bool) {
	if len(r.Splits) == 0 {
		return 0, false
	}
	return r.Splits[len(r.Splits)-1].At.Sub(r.Splits[0].At), true
}

// ObjectiveDuration is the gap between split i-1 and split i. ok is false
// for i = 0 and for i past the end.
func (r RunRecord) ObjectiveDuration(i int) (d time.Duration, ok bool) {
	if i <= 0 || i >= len(r.Splits) {
		return 0, false
	}
	return r.Splits[i].At.Sub(r.Splits[i-1].At), true
}

// RunDurations collects the duration of every run that has one, in order.
func RunDurations(runs []RunRecord) Durations {
	var out Durations
	for _, r := range runs {
		if d, ok := r.Duration(); ok {
			out = append(out, d)
		}
	}
	return out
}

// ObjectiveDurations collects objective i of every run long enough to
// have it, in order.
func ObjectiveDurations(runs []RunRecord, i int) Durations {
	var out Durations
	for _, r := range runs {
		if d, ok := r.ObjectiveDuration(i); ok {
			out = append(out, d)
		}
	}
	return out
}
