package store

import (
	"context"
	"fmt"

	"github.com/roach88/autotimer/internal/ir"
)

// StartSession inserts a session row.
// Uses ON CONFLICT(id) DO NOTHING for idempotency.
func (s *Store) StartSession(ctx context.Context, sess ir.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, data_hash, engine_version, started_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sess.ID,
		sess.DataHash,
		sess.EngineVersion,
		sess.StartedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	return nil
}

// WriteEvent inserts an event record.
// Uses ON CONFLICT(seq) DO NOTHING for idempotency - rewriting a seq is
// silently ignored. The session must exist (foreign key constraint).
func (s *Store) WriteEvent(ctx context.Context, r ir.Record) error {
	record, hash, err := marshalRecord(r)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events
		(seq, session_id, kind, entity_id, name, indoors, timestamp, record, record_hash, record_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`,
		r.Seq,
		r.SessionID,
		r.Kind,
		r.EntityID(),
		r.Name,
		nullableBool(r.Indoors),
		r.Timestamp,
		record,
		hash,
		ir.RecordVersion,
	)
	if err != nil {
		return fmt.Errorf("write event %d: %w", r.Seq, err)
	}
	return nil
}
