package testutil

import (
	"sync"
	"time"
)

// Epoch is the wall time every test clock starts at.
var Epoch = time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)

// StepClock is a deterministic wall clock for tests.
//
// Each call to Tick returns the current time and then advances it by Step,
// so a sequence of polls gets evenly spaced, reproducible timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewStepClock creates a clock at Epoch advancing by step per Tick.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{now: Epoch, step: step}
}

// Tick returns the current time and advances the clock by one step.
func (c *StepClock) Tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Now returns the current time without advancing.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d without producing a tick.
func (c *StepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Reset moves the clock back to Epoch.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = Epoch
}

// At returns Epoch plus ms milliseconds.
func At(ms int64) time.Time {
	return Epoch.Add(time.Duration(ms) * time.Millisecond)
}
