package snes

import "time"

// HistoryCapacity is the number of snapshots kept for comparisons.
const HistoryCapacity = 60

// Reading is a snapshot together with the time it was captured.
type Reading struct {
	At       time.Time
	Snapshot *Snapshot
}

// History is a bounded FIFO window of past readings.
//
// Not safe for concurrent use; the engine owns it from a single goroutine.
type History struct {
	buf   []Reading
	start int
	size  int
}

// NewHistory returns an empty window with capacity HistoryCapacity.
func NewHistory() *History {
	return NewHistoryWithCapacity(HistoryCapacity)
}

// NewHistoryWithCapacity returns an empty window holding at most capacity
// readings. Capacity below one is treated as one.
func NewHistoryWithCapacity(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]Reading, capacity)}
}

// Push appends a reading, evicting the oldest one when full.
func (h *History) Push(r Reading) {
	capacity := len(h.buf)
	if h.size < capacity {
		h.buf[(h.start+h.size)%capacity] = r
		h.size++
		return
	}
	h.buf[h.start] = r
	h.start = (h.start + 1) % capacity
}

// Len returns the number of readings held.
func (h *History) Len() int { return h.size }

// Cap returns the window capacity.
func (h *History) Cap() int { return len(h.buf) }

// At returns the i-th reading, oldest first.
func (h *History) At(i int) (Reading, bool) {
	if i < 0 || i >= h.size {
		return Reading{}, false
	}
	return h.buf[(h.start+i)%len(h.buf)], true
}

// Latest returns the most recently pushed reading.
func (h *History) Latest() (Reading, bool) {
	return h.At(h.size - 1)
}

// Previous returns the most recent snapshot, or nil when the window is empty.
func (h *History) Previous() *Snapshot {
	r, ok := h.Latest()
	if !ok {
		return nil
	}
	return r.Snapshot
}

// Readings returns a copy of the window, oldest first.
func (h *History) Readings() []Reading {
	out := make([]Reading, h.size)
	for i := range out {
		out[i], _ = h.At(i)
	}
	return out
}
