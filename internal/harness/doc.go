// Package harness replays recorded memory sequences through the detection
// engine and checks what it stored.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	data: ./data            # optional; embedded data when empty
//	session_prefix: run     # optional; sessions are run-1, run-2, ...
//	verbosity: 2            # optional; 2 enables actions
//	step_ms: 250            # optional gap between readings
//	frames:
//	  - note: spawn in Link's House
//	    set: {0x10: 0x07, 0x1b: 0x01, 0x10e: 0x00}
//	  - set: {0xf209: 0x10}
//	    words: {0x22: 1272}
//	    repeat: 3
//	  - command: clear_event_log
//	    after_ms: 2000
//	assertions:
//	  - type: trace_contains
//	    kind: location_check
//	    id: 1
//	  - type: trace_order
//	    events: ["transition:1", "location_check:1"]
//	  - type: final_state
//	    table: events
//	    where: { seq: 2 }
//	    expect: { kind: location_check }
//
// Frames accumulate: each one patches the memory the previous frame left.
// Every reading of a frame is one engine poll cycle.
//
// # Assertion Types
//
//   - trace_contains: an event of kind and id was stored
//   - trace_order: events were stored in the given order
//   - trace_count: an event was stored exactly count times
//   - final_state: queries a store table and verifies expected values
//   - engine_state: the engine ended in not_started, in_game or post_credits
//
// # Deterministic Testing
//
// Readings are timestamped from testutil.Epoch, session ids come from a
// numbered sequence, and each scenario gets its own in-memory SQLite store,
// so traces are byte-identical across runs and can be compared to golden
// files.
package harness
