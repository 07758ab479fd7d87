package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/autotimer/internal/compiler"
	"github.com/roach88/autotimer/internal/data"
	"github.com/roach88/autotimer/internal/engine"
	"github.com/roach88/autotimer/internal/ir"
	"github.com/roach88/autotimer/internal/snes"
	"github.com/roach88/autotimer/internal/store"
	"github.com/roach88/autotimer/internal/testutil"
)

// Harness is the scenario execution engine.
// It replays frames with a deterministic clock and session ids.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	data   *data.Dataset
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Compile the scenario's data (or the embedded data)
// 2. Create fresh in-memory database and an engine writing to it
// 3. Replay every frame through the engine
// 4. Read the stored records back as the trace
// 5. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	ds, err := loadData(scenario.Data)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	eng := engine.New(ds,
		engine.WithSink(st),
		engine.WithSessionGenerator(testutil.NewSessionSequence(scenario.SessionPrefix)),
		engine.WithVerbosity(scenario.Verbosity),
	)

	h := &Harness{
		store:  st,
		engine: eng,
		data:   ds,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()
	result := NewResult()

	if err := h.replay(ctx, scenario, result); err != nil {
		return nil, fmt.Errorf("failed to replay frames: %w", err)
	}
	result.State = eng.State().String()

	if err := h.collectTrace(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

func loadData(dir string) (*data.Dataset, error) {
	if dir == "" {
		return data.Default()
	}
	ds, errs := data.Load(os.DirFS(dir), compiler.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load data from %s: %w", dir, errs[0])
	}
	return ds, nil
}

// replay feeds the frames to the engine. Engine errors are recorded on the
// result; a fatal one ends the replay.
func (h *Harness) replay(ctx context.Context, s *Scenario, result *Result) error {
	step := s.StepMS
	if step == 0 {
		step = DefaultStepMS
	}

	builder := snes.NewBuilder(nil)
	var elapsed int64
	first := true

	for i, f := range s.Frames {
		if _, err := f.patch(builder); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if f.Command != "" {
			cmd, err := parseCommand(f.Command)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			h.engine.Submit(cmd)
		}

		repeat := max(f.Repeat, 1)
		for r := 0; r < repeat; r++ {
			if !first {
				gap := step
				if r == 0 && f.AfterMS > 0 {
					gap = f.AfterMS
				}
				elapsed += gap
			}
			first = false

			reading := snes.Reading{
				At:       testutil.At(elapsed),
				Snapshot: builder.Build(),
			}
			if err := h.engine.Process(ctx, reading); err != nil {
				result.AddError(fmt.Sprintf("frame %d at %dms: %v", i, elapsed, err))
				if engine.IsFatal(err) {
					return nil
				}
			}
		}

		h.logger.Info("frame replayed",
			"frame", i,
			"note", f.Note,
			"elapsed_ms", elapsed,
			"state", h.engine.State().String(),
		)
	}
	return nil
}

// collectTrace reads every session's records back from the store.
func (h *Harness) collectTrace(ctx context.Context, result *Result) error {
	sessions, err := h.store.ReadSessions(ctx)
	if err != nil {
		return err
	}
	for _, sess := range sessions {
		result.Sessions = append(result.Sessions, sess.ID)
		records, err := h.store.ReadEvents(ctx, sess.ID)
		if err != nil {
			return err
		}
		for _, rec := range records {
			result.AddTrace(h.traceEvent(rec))
		}
	}
	return nil
}

func (h *Harness) traceEvent(rec ir.Record) TraceEvent {
	ev := TraceEvent{
		Seq:     rec.Seq,
		Session: rec.SessionID,
		Kind:    rec.Kind,
		ID:      rec.EntityID(),
		Name:    rec.Name,
		Indoors: rec.Indoors,
		AtMS:    elapsedSince(rec.Time()),
	}
	if ev.Name == "" {
		// Records only carry names for transitions.
		if kind, ok := ir.ParseEventKind(rec.Kind); ok {
			ev.Name, _ = h.data.NameOf(kind, ev.ID)
		}
	}
	return ev
}

func refOf(kind string, id int) string {
	return kind + ":" + strconv.Itoa(id)
}

func parseRef(ref string) (string, int, error) {
	kind, id, ok := strings.Cut(ref, ":")
	if !ok {
		return "", 0, fmt.Errorf("event ref %q: want kind:id", ref)
	}
	if _, ok := ir.ParseEventKind(kind); !ok {
		return "", 0, fmt.Errorf("event ref %q: unknown kind %q", ref, kind)
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return "", 0, fmt.Errorf("event ref %q: %w", ref, err)
	}
	return kind, n, nil
}

// elapsedSince is the trace timestamp of t.
func elapsedSince(t time.Time) int64 {
	return t.Sub(testutil.Epoch).Milliseconds()
}
