package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/roach88/autotimer/internal/condition"
	"github.com/roach88/autotimer/internal/data"
	"github.com/roach88/autotimer/internal/eventlog"
	"github.com/roach88/autotimer/internal/ir"
	"github.com/roach88/autotimer/internal/snes"
)

// Sink persists emitted records. Implemented by store.Store.
type Sink interface {
	StartSession(ctx context.Context, s ir.Session) error
	WriteEvent(ctx context.Context, r ir.Record) error
}

// Observer is notified of every detected event after it was logged and
// handed to the sink. Observers run on the engine goroutine and must not
// block.
type Observer interface {
	OnEvent(e ir.Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(e ir.Event)

func (f ObserverFunc) OnEvent(e ir.Event) { f(e) }

// ActionVerbosity is the verbosity at which action checks are evaluated.
const ActionVerbosity = 2

// Engine is the single-writer detection loop.
//
// Thread-safety model:
//   - Submit(), State(): safe from any goroutine
//   - Run() / Process(): must be called from exactly one goroutine
//   - SessionID(), Events(), Checks(): call from the Run goroutine or
//     after Run returned
//
// INVARIANTS:
//   - the loaded dataset is never mutated; sessions work on fresh copies
//   - check and tile order never changes after construction
//   - the current session's log always holds at least one transition
type Engine struct {
	data      *data.Dataset
	clock     *Clock
	ids       SessionIDGenerator
	sink      Sink
	observers []Observer
	verbosity int

	stopAtCredits bool

	history   *snes.History
	cur       *session
	state     atomic.Int32
	commands  commandSlot
	lastReset time.Time
	failed    error
}

// session is everything a clear command throws away.
type session struct {
	id     string
	checks *data.Dataset
	log    *eventlog.Tracker
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithSink sets where records are written. Without a sink records are
// still sequenced but not persisted.
func WithSink(s Sink) EngineOption {
	return func(e *Engine) { e.sink = s }
}

// WithObserver adds an observer. Observers are notified in the order added.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// WithVerbosity sets the verbosity level. Actions are only detected at
// ActionVerbosity and above.
func WithVerbosity(v int) EngineOption {
	return func(e *Engine) { e.verbosity = v }
}

// WithSessionGenerator sets the session id source (default UUIDv7).
func WithSessionGenerator(g SessionIDGenerator) EngineOption {
	return func(e *Engine) { e.ids = g }
}

// WithClock sets the record sequence clock, for resuming after the last
// seq already written to a store.
func WithClock(c *Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithStopAtCredits makes Run return once the session reaches PostCredits.
func WithStopAtCredits() EngineOption {
	return func(e *Engine) { e.stopAtCredits = true }
}

// New creates an Engine over a compiled dataset.
//
// The first session starts with the first reading, so its start transition
// carries that reading's timestamp.
func New(ds *data.Dataset, opts ...EngineOption) *Engine {
	e := &Engine{
		data:    ds,
		clock:   NewClock(),
		ids:     UUIDv7Generator{},
		history: snes.NewHistory(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Submit sets the pending control-plane command. It is applied at the start
// of the next poll cycle, never in the middle of one.
// Thread-safe: may be called from any goroutine.
func (e *Engine) Submit(c Command) {
	e.commands.Submit(c)
}

// State returns the session state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(s State) {
	old := State(e.state.Swap(int32(s)))
	if old != s {
		slog.Debug("session state changed", "from", old.String(), "to", s.String())
	}
}

// SessionID returns the current session id, empty before the first reading.
func (e *Engine) SessionID() string {
	if e.cur == nil {
		return ""
	}
	return e.cur.id
}

// Events returns a copy of the current session's event log.
func (e *Engine) Events() []ir.Event {
	if e.cur == nil {
		return nil
	}
	return e.cur.log.Events()
}

// Checks returns copies of the current session's checks of one kind.
func (e *Engine) Checks(kind ir.CheckKind) []ir.Check {
	if e.cur == nil {
		return nil
	}
	return ir.CloneChecks(*e.cur.listFor(kind))
}

func (s *session) listFor(kind ir.CheckKind) *[]ir.Check {
	switch kind {
	case ir.KindEvent:
		return &s.checks.Events
	case ir.KindItem:
		return &s.checks.Items
	case ir.KindAction:
		return &s.checks.Actions
	}
	return &s.checks.Locations
}

// Run starts the single-writer poll loop.
// Blocks until the readings channel is closed, the context is cancelled,
// or a fatal error aborts the session.
//
// CRITICAL: Must be called from exactly ONE goroutine.
//
// ERROR HANDLING: Sink failures are logged with the reading's timestamp and
// processing continues; the detections they describe are kept. Invariant
// violations (IsFatal) stop the loop and are returned.
func (e *Engine) Run(ctx context.Context, readings <-chan snes.Reading) error {
	slog.Info("engine starting",
		"data_hash", e.data.Hash,
		"verbosity", e.verbosity,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("engine stopping: context cancelled")
			return ctx.Err()

		case r, ok := <-readings:
			if !ok {
				slog.Info("engine stopping: readings closed")
				return nil
			}
			if err := e.Process(ctx, r); err != nil {
				if IsFatal(err) {
					slog.Error("session aborted", "session", e.SessionID(), "error", err)
					return err
				}
				slog.Error("reading processing failed", "at", r.At, "error", err)
			}
			if e.stopAtCredits && e.State() == PostCredits {
				slog.Info("engine stopping: post credits")
				return nil
			}
		}
	}
}

// cycle is the per-reading working set.
type cycle struct {
	ctx  context.Context
	at   time.Time
	cond condition.Context
	errs []error
}

// Process runs one poll cycle for a reading.
//
// The returned error joins every non-fatal failure of the cycle (sink
// writes). A fatal error comes first, joined with the failures collected
// before it, and latches: every later call returns the fatal error alone.
func (e *Engine) Process(ctx context.Context, r snes.Reading) error {
	if e.failed != nil {
		return e.failed
	}
	if r.Snapshot == nil {
		return fmt.Errorf("reading at %s has no snapshot", r.At.Format(time.RFC3339Nano))
	}

	var errs []error
	if e.cur == nil {
		errs = append(errs, e.startSession(ctx, r.At))
	}
	errs = append(errs, e.applyCommand(ctx, r.At))

	switch e.State() {
	case PostCredits:
		return errors.Join(errs...)
	case NotStarted:
		if r.Snapshot.GameHasStarted() {
			e.setState(InGame)
			slog.Info("game started", "session", e.cur.id, "at", r.At)
		}
		return errors.Join(errs...)
	}

	cy := &cycle{
		ctx: ctx,
		at:  r.At,
		cond: condition.Context{
			Snapshot: r.Snapshot,
			History:  e.history,
			Log:      e.cur.log,
		},
	}
	if err := e.detect(cy); err != nil {
		e.failed = err
		if others := errors.Join(append(errs, cy.errs...)...); others != nil {
			return errors.Join(err, others)
		}
		return err
	}
	e.history.Push(r)

	if e.State() == InGame && e.finished() {
		e.setState(PostCredits)
		slog.Info("post credits reached", "session", e.cur.id, "at", r.At)
	}
	return errors.Join(append(errs, cy.errs...)...)
}

// detect runs the category evaluators in order. Only fatal errors are
// returned; emission failures collect on the cycle.
func (e *Engine) detect(cy *cycle) error {
	active, err := e.detectEvents(cy)
	if err != nil {
		return err
	}
	if !active {
		e.setState(NotStarted)
		slog.Info("game paused", "session", e.cur.id, "at", cy.at)
		return nil
	}
	if err := e.detectTransition(cy); err != nil {
		return err
	}
	if err := e.detectChecks(cy, e.cur.checks.Locations); err != nil {
		return err
	}
	if err := e.detectChecks(cy, e.cur.checks.Items); err != nil {
		return err
	}
	if e.verbosity >= ActionVerbosity {
		if err := e.detectChecks(cy, e.cur.checks.Actions); err != nil {
			return err
		}
	}
	return nil
}

// finished reports whether the run is over: the victory event or the end
// credits tile is the latest of its kind.
func (e *Engine) finished() bool {
	if other, ok := e.cur.log.LatestOther(); ok && other.ID == VictoryEventID {
		return true
	}
	tile, ok := e.cur.log.LatestTransition()
	return ok && tile.ID == EndCreditsTileID
}

// emit logs an event, then hands it to the sink and the observers.
func (e *Engine) emit(cy *cycle, ev ir.Event) {
	e.cur.log.Push(ev)
	seq := e.clock.Next()

	slog.Debug("event detected",
		"kind", ev.Kind.String(),
		"id", ev.ID(),
		"name", ev.Name(),
		"seq", seq,
	)

	if e.sink != nil {
		rec, err := ir.NewRecord(ev, e.cur.id, seq)
		if err == nil {
			err = e.sink.WriteEvent(cy.ctx, rec)
		}
		if err != nil {
			slog.Error("event emission failed",
				"kind", ev.Kind.String(),
				"id", ev.ID(),
				"seq", seq,
				"error", err,
			)
			cy.errs = append(cy.errs, fmt.Errorf("emit %s %d (seq %d): %w", ev.Kind, ev.ID(), seq, err))
		}
	}

	for _, o := range e.observers {
		o.OnEvent(ev)
	}
}

// startSession swaps in fresh checks and a fresh event log. The history
// window is kept: it describes the console, not the session.
func (e *Engine) startSession(ctx context.Context, at time.Time) error {
	e.cur = &session{
		id:     e.ids.Generate(),
		checks: e.data.Fresh(),
		log:    eventlog.New(at),
	}
	e.setState(NotStarted)
	slog.Info("session started", "session", e.cur.id, "at", at)

	if e.sink == nil {
		return nil
	}
	err := e.sink.StartSession(ctx, ir.Session{
		ID:            e.cur.id,
		DataHash:      e.data.Hash,
		EngineVersion: ir.EngineVersion,
		StartedAt:     at,
	})
	if err != nil {
		return fmt.Errorf("start session %s: %w", e.cur.id, err)
	}
	return nil
}

// applyCommand consumes the pending command. A clear within ResetCooldown
// of the previous one is dropped.
func (e *Engine) applyCommand(ctx context.Context, at time.Time) error {
	switch cmd := e.commands.Take(); cmd {
	case CommandNone:
		return nil
	case CommandClearEventLog:
		if !e.lastReset.IsZero() && at.Sub(e.lastReset) < ResetCooldown {
			slog.Warn("clear command ignored",
				"reason", "cooldown",
				"since_last", at.Sub(e.lastReset),
			)
			return nil
		}
		e.lastReset = at
		slog.Info("event log cleared", "session", e.cur.id, "events", e.cur.log.Len())
		return e.startSession(ctx, at)
	default:
		return fmt.Errorf("unknown command %d", cmd)
	}
}
