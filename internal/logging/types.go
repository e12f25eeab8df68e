package logging

import "time"

// #region event-entry
// EventEntry is a single row in the events table: one run lifecycle
// transition, kept next to the run data it describes.
type EventEntry struct {
	RunID     string
	Kind      string // "run_started" | "run_finished" | "run_failed"
	Detail    string
	CreatedAt time.Time
}

// #endregion event-entry
