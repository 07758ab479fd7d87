// Package engine implements the autotimer state-change detection engine.
//
// ARCHITECTURE:
//
// Single-Writer Poll Loop:
// The engine processes memory readings in one goroutine, one reading at a
// time. Every category evaluator runs to completion before the next reading
// is accepted, so Check lists and the event log need no locking.
//
// Poll Cycle:
// 1. Apply a pending control-plane command (clear event log)
// 2. While not started: wait for the game-start signal, nothing else
// 3. In game: events, then transitions, then locations, then items, then
// actions (verbosity 2 and above)
// 4. Check for victory or the end credits
// 5. Push the reading into the history window
//
// Every detected event is appended to the log first and handed to the sink
// and observers afterwards. A sink failure is reported for the cycle but the
// detection it describes stands.
//
// CRITICAL PATTERNS:
//
// Logical Clock
// Records are stamped with a monotonic seq from Clock.Next(). Wall time
// comes from the reading, never from time.Now, so replays are reproducible.
//
// Deterministic Order
// Checks and tiles are evaluated in declaration order. First match wins
// wherever the order matters.
package engine
