package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// #region recorder

// Recorder receives one labeled series per call.
type Recorder interface {
	// Write appends row to the named table, emitting the header first when
	// the table has not been started yet.
	Write(tableID string, header []string, row []float64) error
}

// HeaderColumns renders the column labels for a sweep, one per size, in
// sweep order.
func HeaderColumns(sizes []int) []string {
	cols := make([]string, len(sizes))
	for i, n := range sizes {
		cols[i] = "nSta=" + strconv.Itoa(n)
	}
	return cols
}

// #endregion

// #region csv-sink

// CSVSink appends each table to results_{tableID}.csv under its directory.
// Header bookkeeping lives on the instance, one entry per tableID per sink
// lifetime; on disk a non-empty table left by an earlier run is extended
// without repeating its header, so row positions stay meaningful across runs.
// A fresh sink truncates each table at its first write instead.
type CSVSink struct {
	dir       string
	fresh     bool
	headerFor map[string]bool
}

// NewCSVSink creates a sink writing under dir, creating the directory if
// missing. An uncreatable directory is a configuration error.
func NewCSVSink(dir string, fresh bool) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir %s: %w", dir, err)
	}
	return &CSVSink{dir: dir, fresh: fresh, headerFor: make(map[string]bool)}, nil
}

// Path returns the file the named table is written to.
func (s *CSVSink) Path(tableID string) string {
	return filepath.Join(s.dir, "results_"+tableID+".csv")
}

// Write opens the table file per call, append mode. Every cell is followed by
// a comma, header and data rows alike, matching the long-standing table
// format downstream plotting scripts consume.
func (s *CSVSink) Write(tableID string, header []string, row []float64) error {
	path := s.Path(tableID)

	first := !s.headerFor[tableID]
	flags := os.O_APPEND | os.O_CREATE | os.O_WRONLY
	if first && s.fresh {
		flags = os.O_TRUNC | os.O_CREATE | os.O_WRONLY
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if first {
		needHeader := true
		if !s.fresh {
			if info, statErr := f.Stat(); statErr == nil && info.Size() > 0 {
				needHeader = false
			}
		}
		if needHeader {
			if _, err := f.WriteString(headerLine(header)); err != nil {
				return fmt.Errorf("writing header to %s: %w", path, err)
			}
		}
		s.headerFor[tableID] = true
	}

	if _, err := f.WriteString(rowLine(row)); err != nil {
		return fmt.Errorf("writing row to %s: %w", path, err)
	}
	return nil
}

func headerLine(header []string) string {
	var b strings.Builder
	for _, h := range header {
		b.WriteString(h)
		b.WriteByte(',')
	}
	b.WriteByte('\n')
	return b.String()
}

func rowLine(row []float64) string {
	var b strings.Builder
	for _, v := range row {
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte(',')
	}
	b.WriteByte('\n')
	return b.String()
}

// #endregion
