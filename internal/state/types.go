package state

import "time"

// #region run-status
// Run lifecycle values stored in the runs.status column.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)
// #endregion run-status

// #region run-record
// RunRecord describes one recorded sweep invocation.
type RunRecord struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time // zero while the run is in progress
	Population   int
	Epsilon      float64
	DurationS    float64
	Strategies   []string
	SweepSizes   []int
	OutputDir    string
	Environment  string // JSON descriptor of the simulated deployment
	Status       string // "running" | "done" | "failed"
	GateOK       bool
	GateFindings string // JSON findings array, empty until the run finishes
}
// #endregion run-record

// #region series-row
// SeriesRow is one swept data point of a recorded results table.
type SeriesRow struct {
	RunID    string
	Strategy string
	Metric   string
	Seq      int // table position within the run, 0-based
	Idx      int // position within the sweep
	N        int // swept station count
	Value    float64
	Draw     float64 // uniform draw behind the value, robustness only
	HasDraw  bool
}
// #endregion series-row
