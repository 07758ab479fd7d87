package engine

import (
	"sync"
	"time"
)

// Command is a control-plane request to the engine.
type Command int

const (
	// CommandNone leaves the session alone.
	CommandNone Command = iota

	// CommandClearEventLog discards every detection and starts a new session.
	CommandClearEventLog
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandClearEventLog:
		return "clear_event_log"
	}
	return "unknown"
}

// ResetCooldown is the minimum time between two applied clear commands,
// measured on reading timestamps.
const ResetCooldown = time.Second

// commandSlot holds at most one pending command.
//
// Submit may be called from any goroutine; the Run loop takes the command
// between poll cycles, so a cycle never sees a half-reset Check list.
// A newer command replaces an older one that was not taken yet.
type commandSlot struct {
	mu      sync.Mutex
	pending Command
}

// Submit sets the pending command.
func (s *commandSlot) Submit(c Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = c
}

// Take returns the pending command and clears the slot.
func (s *commandSlot) Take() Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.pending
	s.pending = CommandNone
	return c
}
