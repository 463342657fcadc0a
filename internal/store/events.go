package store

import (
	"context"
	"fmt"
	"time"
)

// Event is one entry in the append-only journal of mutating
// operations. RunID groups the events of a single invocation.
type Event struct {
	RunID string
	Op    string
	Path  string
	At    time.Time
}

// AppendEvent journals a mutating operation.
func (s *Store) AppendEvent(ctx context.Context, ev Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (run_id, op, path, at_ns)
		VALUES (?, ?, ?, ?)
	`,
		ev.RunID,
		ev.Op,
		ev.Path,
		ev.At.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// EventsForPath returns the journaled events for a canonical path in
// insertion order. Used for forensic inspection of a path's history.
func (s *Store) EventsForPath(ctx context.Context, path string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, op, path, at_ns
		FROM events
		WHERE path = ?
		ORDER BY id ASC
	`, path)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			ev   Event
			atNS int64
		)
		if err := rows.Scan(&ev.RunID, &ev.Op, &ev.Path, &atNS); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.At = time.Unix(0, atNS)
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
