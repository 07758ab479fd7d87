package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/autotimer/internal/condition"
	"github.com/roach88/autotimer/internal/eventlog"
)

// RuntimeError represents an invariant violation detected while processing
// a reading. Runtime errors are fatal: the session's event stream can no
// longer be trusted, so Run stops instead of logging and continuing.
//
// Runtime errors include:
//   - Missing transition: the event log lost its seeded start transition
//   - Unsupported condition: data reached a condition the evaluator refuses
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Kind and ID identify the check or tile whose conditions failed.
	Kind string
	ID   int

	// Details contains additional context.
	Details map[string]string

	err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeMissingTransition indicates the event log has no transition.
	ErrCodeMissingTransition RuntimeErrorCode = "MISSING_TRANSITION"

	// ErrCodeUnsupportedCondition indicates an unimplemented condition was reached.
	ErrCodeUnsupportedCondition RuntimeErrorCode = "UNSUPPORTED_CONDITION"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s (%s %d)", e.Code, e.Message, e.Kind, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying sentinel.
func (e *RuntimeError) Unwrap() error {
	return e.err
}

// IsFatal reports whether err must abort the session.
// Uses errors.As to handle wrapped and joined errors.
func IsFatal(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re)
}

// IsMissingTransition returns true if the error is a missing transition error.
func IsMissingTransition(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeMissingTransition
	}
	return false
}

// IsUnsupportedCondition returns true if the error is an unsupported condition error.
func IsUnsupportedCondition(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnsupportedCondition
	}
	return false
}

// classify turns an evaluation failure into a RuntimeError naming the
// entity whose conditions were being evaluated. Errors of any other origin
// are returned unchanged.
func classify(err error, kind string, id int) error {
	if err == nil {
		return nil
	}
	re := &RuntimeError{Message: err.Error(), Kind: kind, ID: id, err: err}

	var unsupported *condition.UnsupportedError
	switch {
	case errors.As(err, &unsupported):
		re.Code = ErrCodeUnsupportedCondition
		re.Details = map[string]string{
			"condition": string(unsupported.Kind),
			"offset":    fmt.Sprintf("0x%X", unsupported.Offset),
		}
		if unsupported.Operand != "" {
			re.Details["operand"] = string(unsupported.Operand)
		}
	case errors.Is(err, eventlog.ErrNoTransition):
		re.Code = ErrCodeMissingTransition
	default:
		return err
	}
	return re
}
