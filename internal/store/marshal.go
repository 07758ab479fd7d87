package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/autotimer/internal/ir"
)

// marshalRecord returns the record as canonical JSON TEXT and its hash.
func marshalRecord(r ir.Record) (string, string, error) {
	data, err := r.MarshalCanonical()
	if err != nil {
		return "", "", fmt.Errorf("marshal record: %w", err)
	}
	hash, err := ir.RecordHash(r)
	if err != nil {
		return "", "", fmt.Errorf("hash record: %w", err)
	}
	return string(data), hash, nil
}

// unmarshalRecord parses a stored record.
func unmarshalRecord(data string) (ir.Record, error) {
	var r ir.Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return ir.Record{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return r, nil
}

// nullableBool maps an optional flag to a nullable INTEGER column.
func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	if *b {
		return 1
	}
	return 0
}
