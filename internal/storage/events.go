package storage

import (
	"fmt"

	"github.com/vovakirdan/bubblepop/internal/ledger"
)

// SaveEvent appends a scoring event to the ledger table.
func (s *Store) SaveEvent(e ledger.Event) error {
	_, err := s.db.Exec(
		"INSERT INTO ledger_events (session_id, kind, score, created_at) VALUES (?, ?, ?, ?)",
		e.SessionID, string(e.Kind), e.Score, formatTime(e.At),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save event: %w", err)
	}
	return nil
}

// EventsBySession returns up to limit events of one session, oldest first.
func (s *Store) EventsBySession(sessionID string, limit int) ([]ledger.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queryEvents(
		`SELECT session_id, kind, score, created_at
		 FROM ledger_events
		 WHERE session_id = ?
		 ORDER BY id ASC
		 LIMIT ?`,
		sessionID, limit,
	)
}

// RecentEvents returns the most recent events across sessions, newest first.
func (s *Store) RecentEvents(limit int) ([]ledger.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queryEvents(
		`SELECT session_id, kind, score, created_at
		 FROM ledger_events
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// CountEvents returns the total number of stored events.
func (s *Store) CountEvents() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM ledger_events").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count events: %w", err)
	}
	return n, nil
}

func (s *Store) queryEvents(query string, args ...any) ([]ledger.Event, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query events: %w", err)
	}
	defer rows.Close()

	var events []ledger.Event
	for rows.Next() {
		var e ledger.Event
		var kind string
		var createdAt any
		if err := rows.Scan(&e.SessionID, &kind, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan event: %w", err)
		}
		e.Kind = ledger.Kind(kind)
		e.At = parseTime(createdAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return events, nil
}

var _ ledger.EventLog = (*Store)(nil)
