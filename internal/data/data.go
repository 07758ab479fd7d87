// Package data embeds the declarative check and tile lists and compiles
// them into a Dataset.
package data

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/roach88/autotimer/internal/compiler"
	"github.com/roach88/autotimer/internal/ir"
)

//go:embed *.cue
var embedded embed.FS

// Embedded returns the data files shipped with the binary.
func Embedded() fs.FS {
	return embedded
}

// Dataset is every compiled list plus the hash of the sources it came from.
//
// A loaded Dataset is never mutated; the engine works on Fresh copies.
type Dataset struct {
	Events    []ir.Check
	Locations []ir.Check
	Items     []ir.Check
	Actions   []ir.Check
	Tiles     []ir.Tile

	Warnings []compiler.ValidationError
	Hash     string
	Files    []string
}

// Fresh returns copies of the check lists in their loaded, unchecked state.
// Tiles and conditions are shared; nothing mutates them.
func (d *Dataset) Fresh() *Dataset {
	fresh := *d
	fresh.Events = freshChecks(d.Events)
	fresh.Locations = freshChecks(d.Locations)
	fresh.Items = freshChecks(d.Items)
	fresh.Actions = freshChecks(d.Actions)
	return &fresh
}

func freshChecks(checks []ir.Check) []ir.Check {
	out := ir.CloneChecks(checks)
	for i := range out {
		out[i].Reset()
	}
	return out
}

// Load compiles every .cue file at the root of fsys, in name order.
func Load(fsys fs.FS, mode compiler.LoadMode) (*Dataset, []error) {
	names, err := fs.Glob(fsys, "*.cue")
	if err != nil {
		return nil, []error{fmt.Errorf("listing data files: %w", err)}
	}
	if len(names) == 0 {
		return nil, []error{fmt.Errorf("no .cue data files found")}
	}
	slices.Sort(names)

	sources := make([]compiler.Source, 0, len(names))
	hashed := make([][]byte, 0, 2*len(names))
	for _, name := range names {
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, []error{fmt.Errorf("reading %s: %w", name, err)}
		}
		sources = append(sources, compiler.Source{Name: path.Base(name), Body: body})
		hashed = append(hashed, []byte(path.Base(name)), body)
	}

	lists, errs := compiler.Compile(sources, mode)
	if lists == nil {
		return nil, errs
	}
	return &Dataset{
		Events:    lists.Events,
		Locations: lists.Locations,
		Items:     lists.Items,
		Actions:   lists.Actions,
		Tiles:     lists.Tiles,
		Warnings:  lists.Warnings,
		Hash:      ir.DataHash(hashed...),
		Files:     names,
	}, errs
}

// Default compiles the embedded data, failing on the first error.
func Default() (*Dataset, error) {
	ds, errs := Load(embedded, compiler.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return ds, nil
}

// NameOf returns the name of the tile or check an event of kind and id
// refers to.
func (d *Dataset) NameOf(kind ir.EventKind, id int) (string, bool) {
	if kind == ir.EventTransition {
		for _, t := range d.Tiles {
			if t.ID == id {
				return t.Name, true
			}
		}
		return "", false
	}
	var list []ir.Check
	switch kind {
	case ir.EventOther:
		list = d.Events
	case ir.EventLocationCheck:
		list = d.Locations
	case ir.EventItemGet:
		list = d.Items
	case ir.EventAction:
		list = d.Actions
	}
	for _, c := range list {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}
