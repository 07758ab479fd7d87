// Package condition evaluates declarative condition trees.
//
// Evaluate is a pure function of the current snapshot, the history window
// and the event log: it never mutates any of them and never blocks.
// Predicates that need a previous read are false on an empty history.
//
// Composite identities on empty subcondition lists:
//
//	All([]) = true
//	Any([]) = false
//	Not([]) = true   (Not means "no subcondition holds")
//
// Two situations are errors rather than false, because continuing would
// corrupt the event stream: a missing transition in the log, and the
// CheckCount operand of ValueGreaterThan, which has no defined meaning.
package condition
