package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/autotimer/internal/ir"
	"github.com/roach88/autotimer/internal/timing"
)

// ReadSessions returns every session, oldest first.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadSessions(ctx context.Context) ([]ir.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, data_hash, engine_version, started_at
		FROM sessions
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []ir.Session{}
	for rows.Next() {
		var sess ir.Session
		var started int64
		if err := rows.Scan(&sess.ID, &sess.DataHash, &sess.EngineVersion, &started); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartedAt = time.UnixMilli(started).UTC()
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadEvents returns the records of one session in seq order.
// Returns an empty slice (not nil) if the session has none.
func (s *Store) ReadEvents(ctx context.Context, sessionID string) ([]ir.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record
		FROM events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	records := []ir.Record{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		r, err := unmarshalRecord(data)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return records, nil
}

// MaxSeq returns the highest seq written, or 0 for an empty store. A new
// engine clock resumes from it.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM events`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("query max seq: %w", err)
	}
	return seq.Int64, nil
}

// ReadRuns returns one run per session that has objective events, ordered
// by session start. Actions are not objectives and are left out.
func (s *Store) ReadRuns(ctx context.Context) ([]timing.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.session_id, e.kind, e.entity_id, e.name, e.timestamp
		FROM events e
		JOIN sessions s ON s.id = e.session_id
		WHERE e.kind != ?
		ORDER BY s.started_at ASC, s.id COLLATE BINARY ASC, e.seq ASC
	`, ir.EventAction.String())
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []timing.RunRecord{}
	for rows.Next() {
		var (
			session, kind string
			split         timing.Split
			ts            int64
		)
		if err := rows.Scan(&session, &kind, &split.ID, &split.Name, &ts); err != nil {
			return nil, fmt.Errorf("scan run event: %w", err)
		}
		k, ok := ir.ParseEventKind(kind)
		if !ok {
			return nil, fmt.Errorf("session %s: unknown event kind %q", session, kind)
		}
		split.Kind = k
		split.At = time.UnixMilli(ts).UTC()

		if n := len(runs); n == 0 || runs[n-1].Session != session {
			runs = append(runs, timing.RunRecord{Session: session})
		}
		last := &runs[len(runs)-1]
		last.Splits = append(last.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Query runs a read-only query against the store. Used by scenario
// assertions on final table contents.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}
