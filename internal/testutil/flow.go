package testutil

import (
	"fmt"
	"sync"
)

// SessionSequence generates numbered session ids: "<prefix>-1",
// "<prefix>-2", and so on.
//
// Unlike a fixed list it never runs out, so scenarios can clear the event
// log any number of times and still get reproducible ids.
//
// Thread-safety: SessionSequence is safe for concurrent use via internal mutex.
type SessionSequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSessionSequence creates a generator. An empty prefix means "session".
func NewSessionSequence(prefix string) *SessionSequence {
	if prefix == "" {
		prefix = "session"
	}
	return &SessionSequence{prefix: prefix}
}

// Generate returns the next id.
//
// Implements engine.SessionIDGenerator.
func (g *SessionSequence) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
