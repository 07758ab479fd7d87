package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/autotimer/internal/engine"
	"github.com/roach88/autotimer/internal/ir"
	"github.com/roach88/autotimer/internal/snes"
)

// DefaultStepMS is the gap between frames when a scenario sets none.
const DefaultStepMS = 250

// Scenario is a recorded sequence of memory states replayed through the
// engine, plus assertions on what it detected.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Data is a directory of .cue data files, relative to the scenario
	// file. Empty means the embedded data.
	Data string `yaml:"data,omitempty"`

	// SessionPrefix names sessions "<prefix>-1", "<prefix>-2", ...
	// Defaults to "session".
	SessionPrefix string `yaml:"session_prefix,omitempty"`

	// Verbosity is handed to the engine; 2 enables actions.
	Verbosity int `yaml:"verbosity,omitempty"`

	// StepMS is the default gap between frames in milliseconds.
	StepMS int64 `yaml:"step_ms,omitempty"`

	// Frames are applied in order. Patches accumulate: every frame starts
	// from the memory the previous one left.
	Frames []Frame `yaml:"frames"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// Frame is one poll: memory patches, an optional command, and how many
// identical readings to take.
type Frame struct {
	// Note documents the frame. Ignored by the harness.
	Note string `yaml:"note,omitempty"`

	// Set writes bytes. Keys are offsets, values bytes; both accept hex
	// ("0xf411") or decimal.
	Set map[string]string `yaml:"set,omitempty"`

	// Words writes little-endian 16-bit values.
	Words map[string]string `yaml:"words,omitempty"`

	// Command is submitted before the frame's first reading.
	Command string `yaml:"command,omitempty"`

	// AfterMS overrides the gap since the previous reading.
	AfterMS int64 `yaml:"after_ms,omitempty"`

	// Repeat takes this many readings of the frame (default 1).
	Repeat int `yaml:"repeat,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an event of Kind with ID is in the trace
	// - "trace_order": Events appear in order
	// - "trace_count": an event of Kind with ID appears exactly Count times
	// - "final_state": query a store table and verify expected values
	// - "engine_state": the engine ends in State
	Type string `yaml:"type"`

	// Kind and ID identify an event (trace_contains, trace_count).
	Kind string `yaml:"kind,omitempty"`
	ID   *int   `yaml:"id,omitempty"`

	// Session narrows trace_contains and trace_count to one session.
	Session string `yaml:"session,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Events is the expected order as "kind:id" refs (trace_order).
	Events []string `yaml:"events,omitempty"`

	// Table is the store table name (final_state).
	Table string `yaml:"table,omitempty"`

	// Where specifies query filters (final_state).
	// All fields must match exactly.
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect contains expected field values (final_state).
	// Subset match - only specified fields are validated.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// State is the expected engine state (engine_state).
	State string `yaml:"state,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertEngineState   = "engine_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative Data directory is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Data != "" && !filepath.IsAbs(scenario.Data) {
		scenario.Data = filepath.Join(filepath.Dir(path), scenario.Data)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Frames) == 0 {
		return fmt.Errorf("frames list is required and must be non-empty")
	}

	if s.StepMS < 0 {
		return fmt.Errorf("step_ms must be non-negative")
	}

	if s.Data != "" {
		if info, err := os.Stat(s.Data); err != nil || !info.IsDir() {
			return fmt.Errorf("data directory not found: %s", s.Data)
		}
	}

	for i, f := range s.Frames {
		if err := validateFrame(i, f); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateFrame(index int, f Frame) error {
	if _, err := f.patch(snes.NewBuilder(nil)); err != nil {
		return fmt.Errorf("frames[%d]: %w", index, err)
	}
	if f.Command != "" {
		if _, err := parseCommand(f.Command); err != nil {
			return fmt.Errorf("frames[%d]: %w", index, err)
		}
	}
	if f.Repeat < 0 {
		return fmt.Errorf("frames[%d]: repeat must be non-negative", index)
	}
	if f.AfterMS < 0 {
		return fmt.Errorf("frames[%d]: after_ms must be non-negative", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains, AssertTraceCount:
		if _, ok := ir.ParseEventKind(a.Kind); !ok {
			return fmt.Errorf("assertions[%d]: unknown event kind %q for %s", index, a.Kind, a.Type)
		}
		if a.ID == nil {
			return fmt.Errorf("assertions[%d]: id is required for %s", index, a.Type)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for trace_order", index)
		}
		for _, ref := range a.Events {
			if _, _, err := parseRef(ref); err != nil {
				return fmt.Errorf("assertions[%d]: %w", index, err)
			}
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertEngineState:
		switch a.State {
		case engine.NotStarted.String(), engine.InGame.String(), engine.PostCredits.String():
		default:
			return fmt.Errorf("assertions[%d]: unknown engine state %q", index, a.State)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// patch applies the frame's writes to b.
func (f Frame) patch(b *snes.Builder) (*snes.Builder, error) {
	for k, v := range f.Set {
		offset, value, err := parsePatch(k, v, 8)
		if err != nil {
			return nil, err
		}
		if !snes.Mapped(offset) {
			return nil, fmt.Errorf("offset %s is not captured by a snapshot", k)
		}
		b.Set(offset, uint8(value))
	}
	for k, v := range f.Words {
		offset, value, err := parsePatch(k, v, 16)
		if err != nil {
			return nil, err
		}
		if !snes.MappedWord(offset) {
			return nil, fmt.Errorf("word offset %s is not captured by a snapshot", k)
		}
		b.SetWord(offset, uint16(value))
	}
	return b, nil
}

func parsePatch(offset, value string, bits int) (int, uint64, error) {
	o, err := strconv.ParseUint(offset, 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad offset %q: %w", offset, err)
	}
	v, err := strconv.ParseUint(value, 0, bits)
	if err != nil {
		return 0, 0, fmt.Errorf("bad value %q at %s: %w", value, offset, err)
	}
	return int(o), v, nil
}

func parseCommand(s string) (engine.Command, error) {
	if s == engine.CommandClearEventLog.String() {
		return engine.CommandClearEventLog, nil
	}
	return engine.CommandNone, fmt.Errorf("unknown command %q", s)
}
