package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/autotimer/internal/snes"
)

// lookup returns the named field of a struct value. Quoting through
// cue.Str keeps labels like "type" or "if" from being parsed as syntax.
func lookup(v cue.Value, name string) cue.Value {
	return v.LookupPath(cue.MakePath(cue.Str(name)))
}

func requiredString(v cue.Value, name string) (string, error) {
	f := lookup(v, name)
	if !f.Exists() {
		return "", &CompileError{Field: name, Message: name + " is required", Pos: v.Pos()}
	}
	s, err := f.String()
	if err != nil {
		return "", &CompileError{Field: name, Message: "must be a string", Pos: f.Pos()}
	}
	return s, nil
}

// name reads a display name and normalizes it to NFC so names compare and
// hash identically regardless of how the source file was encoded.
func name(v cue.Value) (string, error) {
	s, err := requiredString(v, "name")
	if err != nil {
		return "", err
	}
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" {
		return "", &CompileError{Field: "name", Message: "name must be non-empty", Pos: lookup(v, "name").Pos()}
	}
	return s, nil
}

func optionalBool(v cue.Value, name string) (bool, error) {
	f := lookup(v, name)
	if !f.Exists() {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, &CompileError{Field: name, Message: "must be a bool", Pos: f.Pos()}
	}
	return b, nil
}

// requiredInt reads a non-negative int (or "0x" hex string) bounded by max.
func requiredInt(v cue.Value, name string, max uint64) (int, error) {
	f := lookup(v, name)
	if !f.Exists() {
		return 0, &CompileError{Field: name, Message: name + " is required", Pos: v.Pos()}
	}
	n, err := number(f, name, max)
	return int(n), err
}

// optionalInt is requiredInt with a default when the field is absent.
func optionalInt(v cue.Value, name string, max uint64, def int) (int, error) {
	f := lookup(v, name)
	if !f.Exists() {
		return def, nil
	}
	n, err := number(f, name, max)
	return int(n), err
}

// number accepts an int literal or a hex string such as "0xF411".
func number(v cue.Value, field string, max uint64) (uint64, error) {
	var n uint64
	switch v.IncompleteKind() {
	case cue.IntKind:
		u, err := v.Uint64()
		if err != nil {
			return 0, &CompileError{Field: field, Message: "must be a non-negative integer", Pos: v.Pos()}
		}
		n = u
	case cue.StringKind:
		s, _ := v.String()
		u, err := parseHex(s)
		if err != nil {
			return 0, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
		}
		n = u
	default:
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("must be an integer or hex string, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
	if n > max {
		return 0, &CompileError{Field: field, Message: fmt.Sprintf("value 0x%X exceeds 0x%X", n, max), Pos: v.Pos()}
	}
	return n, nil
}

func parseHex(s string) (uint64, error) {
	digits, ok := strings.CutPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if !ok || digits == "" {
		return 0, fmt.Errorf("invalid hex literal %q: missing 0x prefix", s)
	}
	n, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hex literal %q", s)
	}
	return n, nil
}

// offset reads a memory offset and rejects offsets no snapshot captures.
func offset(v cue.Value, field string, required bool) (int, error) {
	f := lookup(v, field)
	if !f.Exists() {
		if required {
			return 0, &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
		}
		return 0, nil
	}
	n, err := number(f, field, 0xFFFFFF)
	if err != nil {
		return 0, err
	}
	if !snes.Mapped(int(n)) {
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("offset 0x%X is outside the captured memory regions", n),
			Pos:     f.Pos(),
		}
	}
	return int(n), nil
}

// coordinate reads a single coordinate: an int or a decimal string.
func coordinate(v cue.Value, field string) (uint16, error) {
	switch v.IncompleteKind() {
	case cue.IntKind:
		n, err := number(v, field, 0xFFFF)
		return uint16(n), err
	case cue.StringKind:
		s, _ := v.String()
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
		if err != nil {
			return 0, &CompileError{Field: field, Message: fmt.Sprintf("invalid coordinate %q", s), Pos: v.Pos()}
		}
		return uint16(n), nil
	}
	return 0, &CompileError{Field: field, Message: "coordinate must be an integer or decimal string", Pos: v.Pos()}
}

// coordinateRange reads an inclusive range written as a single value,
// a "lo-hi" string or a two element list.
func coordinateRange(v cue.Value, field string) ([2]uint16, error) {
	switch v.IncompleteKind() {
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return [2]uint16{}, formatCUEError(err)
		}
		var vals []uint16
		for iter.Next() {
			n, err := coordinate(iter.Value(), field)
			if err != nil {
				return [2]uint16{}, err
			}
			vals = append(vals, n)
		}
		return rangeOf(vals, v, field)
	case cue.StringKind:
		s, _ := v.String()
		var vals []uint16
		for _, part := range strings.Split(s, "-") {
			n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 16)
			if err != nil {
				return [2]uint16{}, &CompileError{Field: field, Message: fmt.Sprintf("invalid range %q", s), Pos: v.Pos()}
			}
			vals = append(vals, uint16(n))
		}
		return rangeOf(vals, v, field)
	}
	n, err := coordinate(v, field)
	return [2]uint16{n, n}, err
}

func rangeOf(vals []uint16, v cue.Value, field string) ([2]uint16, error) {
	switch {
	case len(vals) == 1:
		return [2]uint16{vals[0], vals[0]}, nil
	case len(vals) == 2 && vals[0] <= vals[1]:
		return [2]uint16{vals[0], vals[1]}, nil
	}
	return [2]uint16{}, &CompileError{Field: field, Message: "range must be one value or lo <= hi", Pos: v.Pos()}
}
