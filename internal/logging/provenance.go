package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-event
// LogEvent writes a run lifecycle entry to the events table.
func LogEvent(db *sql.DB, entry EventEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO events (run_id, kind, detail, created_at) VALUES (?, ?, ?, ?)`,
		entry.RunID,
		entry.Kind,
		nullIfEmpty(entry.Detail),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}

// #endregion log-event

// #region list-events
// ListEvents returns a run's events in insertion order.
func ListEvents(db *sql.DB, runID string) ([]EventEntry, error) {
	rows, err := db.Query(
		`SELECT run_id, kind, detail, created_at FROM events WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []EventEntry
	for rows.Next() {
		var e EventEntry
		var detail sql.NullString
		var ts string
		if err := rows.Scan(&e.RunID, &e.Kind, &detail, &ts); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Detail = detail.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion list-events

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
