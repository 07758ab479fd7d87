package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/autotimer/internal/ir"
)

var epoch = time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession writes a session started ms milliseconds after epoch.
func createTestSession(t *testing.T, s *Store, id string, ms int64) {
	t.Helper()
	require.NoError(t, s.StartSession(context.Background(), ir.Session{
		ID:            id,
		DataHash:      "test-hash",
		EngineVersion: ir.EngineVersion,
		StartedAt:     epoch.Add(time.Duration(ms) * time.Millisecond),
	}))
}

// createTestRecord builds a record for e, which must carry a timestamp.
func createTestRecord(t *testing.T, e ir.Event, session string, seq int64) ir.Record {
	t.Helper()
	r, err := ir.NewRecord(e, session, seq)
	require.NoError(t, err)
	return r
}

func at(ms int64) time.Time { return epoch.Add(time.Duration(ms) * time.Millisecond) }
