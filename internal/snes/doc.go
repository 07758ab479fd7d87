// Package snes models captured console memory.
//
// A Snapshot is one poll of three fixed memory regions, addressed by offsets
// relative to the start of work RAM mirror (0xF50000). Offsets used by
// declarative data and named accessors are always in that address space;
// Snapshot translates them into the owning region.
//
// History keeps the most recent snapshots (capacity 60, FIFO eviction) so that
// "changed since previous read" predicates have something to compare against.
package snes
