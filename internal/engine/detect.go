package engine

import (
	"time"

	"github.com/roach88/autotimer/internal/condition"
	"github.com/roach88/autotimer/internal/ir"
)

// detectEvents runs the story event list. The first newly matched event
// ends the pass; the result tells whether the game is still active
// afterwards. Reset and save and quit pause it.
func (e *Engine) detectEvents(cy *cycle) (bool, error) {
	events := e.cur.checks.Events
	for i := range events {
		c := &events[i]
		matched, err := match(c, cy.cond, cy.at)
		if err != nil {
			return false, classify(err, c.Kind.String(), c.ID)
		}
		if !matched {
			continue
		}
		e.emit(cy, ir.NewOther(*c))
		return !pausesGame(c.ID), nil
	}
	return true, nil
}

// detectChecks runs a location, item or action list in declaration order.
// A match is visible to the conditions of every later check in the same
// pass.
func (e *Engine) detectChecks(cy *cycle, checks []ir.Check) error {
	for i := range checks {
		c := &checks[i]
		matched, err := match(c, cy.cond, cy.at)
		if err != nil {
			return classify(err, c.Kind.String(), c.ID)
		}
		if matched {
			e.emit(cy, ir.EventFor(*c))
		}
	}
	return nil
}

// detectTransition emits a transition when the resolved tile differs from
// the latest one.
func (e *Engine) detectTransition(cy *cycle) error {
	prev, err := e.cur.log.MustLatestTransition()
	if err != nil {
		return classify(err, "transition", 0)
	}
	tile, ok, err := resolveTile(e.data.Tiles, prev, cy.cond)
	if err != nil || !ok || tile.ID == prev.ID {
		return err
	}
	tile.At = cy.at
	e.emit(cy, ir.NewTransition(tile))
	return nil
}

// match evaluates one check and applies the mutation when it fires.
// Returns true when an event should be emitted.
//
// With conditions: non-progressive checks fire once. Progressive ones with
// an offset fire whenever the conditions hold and the level goes up; without
// an offset they fire every time the conditions hold. Without conditions
// the byte at the check's offset must have changed since the previous
// reading; then the mask decides for plain checks and the byte value for
// progressive ones.
func match(c *ir.Check, ctx condition.Context, at time.Time) (bool, error) {
	progressive := c.Progressive || c.Kind == ir.KindAction

	if c.HasConditions() {
		if c.Checked && !progressive {
			return false, nil
		}
		ok, err := condition.All(c.Conditions, ctx)
		if err != nil || !ok {
			return false, err
		}
		switch {
		case !progressive:
			return c.MarkChecked(at), nil
		case c.HasOffset:
			return c.Progress(ctx.Snapshot.Byte(c.Offset), at), nil
		default:
			return c.Occur(at), nil
		}
	}

	// Actions are only detected through conditions.
	if c.Kind == ir.KindAction {
		return false, nil
	}
	prev := ctx.History.Previous()
	if prev == nil {
		return false, nil
	}
	cur := ctx.Snapshot.Byte(c.Offset)
	if prev.Byte(c.Offset) == cur {
		return false, nil
	}
	if progressive {
		return c.Progress(cur, at), nil
	}
	return cur&c.Mask != 0 && c.MarkChecked(at), nil
}
