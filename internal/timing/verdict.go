package timing

import (
	"fmt"
	"time"
)

// Tolerance is the band around the best time within which a new time is
// neither better nor worse. Polling adds a few milliseconds of jitter to
// every measurement.
const Tolerance = 38 * time.Millisecond

// VerdictKind is the outcome of comparing a time against the best.
type VerdictKind int

const (
	VerdictBest VerdictKind = iota + 1
	VerdictOk
	VerdictBad
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictBest:
		return "best"
	case VerdictOk:
		return "ok"
	case VerdictBad:
		return "bad"
	}
	return "unknown"
}

// Verdict is a classification plus its difference: time saved for Best,
// the tolerance band for Ok, time lost for Bad.
type Verdict struct {
	Kind VerdictKind
	Diff time.Duration
}

// Classify compares next against best. Without a best every time is the
// best, by zero.
func Classify(next, best time.Duration, hasBest bool) Verdict {
	switch {
	case !hasBest:
		return Verdict{Kind: VerdictBest}
	case next < best-Tolerance:
		return Verdict{Kind: VerdictBest, Diff: best - next}
	case next < best+Tolerance:
		return Verdict{Kind: VerdictOk, Diff: Tolerance}
	}
	return Verdict{Kind: VerdictBad, Diff: next - best}
}

func (v Verdict) String() string {
	return fmt.Sprintf("%s(%s)", v.Kind, FormatDuration(v.Diff))
}

// Describe renders a finished time with its verdict, e.g.
// "Finished in 10.100 (+ 0.100)".
func (v Verdict) Describe(next time.Duration) string {
	sign := "-"
	switch v.Kind {
	case VerdictOk:
		sign = "±"
	case VerdictBad:
		sign = "+"
	}
	return fmt.Sprintf("Finished in %s (%s %s)", FormatDuration(next), sign, FormatDuration(v.Diff))
}
