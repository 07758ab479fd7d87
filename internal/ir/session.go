package ir

import "time"

// Session describes one continuous detection session. A reset command ends
// the current session and starts another.
type Session struct {
	ID            string
	DataHash      string
	EngineVersion string
	StartedAt     time.Time
}
