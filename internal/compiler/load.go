package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/autotimer/internal/ir"
)

// LoadMode controls how errors are handled while compiling sources.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Source is one declarative data file.
type Source struct {
	Name string
	Body []byte
}

// Top-level fields a source may define, in the order they are compiled.
const (
	FieldEvents    = "events"
	FieldLocations = "locations"
	FieldItems     = "items"
	FieldActions   = "actions"
	FieldTiles     = "tiles"
)

var checkFields = []struct {
	field string
	kind  ir.CheckKind
}{
	{FieldEvents, ir.KindEvent},
	{FieldLocations, ir.KindLocation},
	{FieldItems, ir.KindItem},
	{FieldActions, ir.KindAction},
}

// Compile compiles every source and validates references across them.
// Entries are appended in source order, then entry order, which is the
// iteration order the engine uses.
func Compile(sources []Source, mode LoadMode) (*Lists, []error) {
	ctx := cuecontext.New()
	lists := &Lists{}
	var errs []error
	fail := func(err error) bool {
		errs = append(errs, err)
		return mode == LoadModeFailFast
	}

	for _, src := range sources {
		value := ctx.CompileBytes(src.Body, cue.Filename(src.Name))
		if err := value.Err(); err != nil {
			if fail(formatCUEError(err)) {
				return lists, errs
			}
			continue
		}

		for _, cf := range checkFields {
			list := lookup(value, cf.field)
			if !list.Exists() {
				continue
			}
			iter, err := list.List()
			if err != nil {
				if fail(&CompileError{Field: cf.field, Message: "must be a list", Pos: list.Pos()}) {
					return lists, errs
				}
				continue
			}
			for iter.Next() {
				c, err := CompileCheck(iter.Value(), cf.kind)
				if err != nil {
					if fail(err) {
						return lists, errs
					}
					continue
				}
				lists.appendCheck(c)
			}
		}

		if tiles := lookup(value, FieldTiles); tiles.Exists() {
			iter, err := tiles.List()
			if err != nil {
				if fail(&CompileError{Field: FieldTiles, Message: "must be a list", Pos: tiles.Pos()}) {
					return lists, errs
				}
				continue
			}
			for iter.Next() {
				t, err := CompileTile(iter.Value())
				if err != nil {
					if fail(err) {
						return lists, errs
					}
					continue
				}
				lists.Tiles = append(lists.Tiles, t)
			}
		}
	}

	if len(errs) > 0 {
		return lists, errs
	}
	for _, verr := range Validate(lists) {
		if verr.Warning {
			lists.Warnings = append(lists.Warnings, verr)
			continue
		}
		if fail(verr) {
			return lists, errs
		}
	}
	if len(errs) == 0 && lists.empty() {
		errs = append(errs, fmt.Errorf("no events, locations, items, actions or tiles found in %d sources", len(sources)))
	}
	return lists, errs
}

func (l *Lists) appendCheck(c ir.Check) {
	switch c.Kind {
	case ir.KindEvent:
		l.Events = append(l.Events, c)
	case ir.KindLocation:
		l.Locations = append(l.Locations, c)
	case ir.KindItem:
		l.Items = append(l.Items, c)
	case ir.KindAction:
		l.Actions = append(l.Actions, c)
	}
}

func (l *Lists) empty() bool {
	return len(l.Events)+len(l.Locations)+len(l.Items)+len(l.Actions)+len(l.Tiles) == 0
}
