package replay

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/aitp-bench/internal/metrics"
	"github.com/danielpatrickdp/aitp-bench/internal/strategy"
)

// matchTolerance bounds the absolute difference treated as equal. Recomputed
// values are bit-identical in practice; the slack covers fixtures edited by
// hand or produced by other tooling.
const matchTolerance = 1e-9

// #region report-types

// TableDiff pinpoints one mismatched value within a table.
type TableDiff struct {
	Index int     `json:"index"`
	Want  float64 `json:"want"`
	Got   float64 `json:"got"`
}

// TableReport is the comparison outcome for one recorded table.
type TableReport struct {
	TableID string      `json:"table_id"`
	Match   bool        `json:"match"`
	Reason  string      `json:"reason,omitempty"`
	Diffs   []TableDiff `json:"diffs,omitempty"`
}

// Report aggregates the per-table outcomes of one replay.
type Report struct {
	OK      bool          `json:"ok"`
	Matched int           `json:"matched"`
	Tables  []TableReport `json:"tables"`
}

// #endregion report-types

// #region replay

// Replay recomputes every table of a fixture from its recorded parameters and
// draws, then compares against the recorded values. A mismatch is reported,
// not returned as an error; errors mean the fixture could not be recomputed
// at all.
func Replay(f *Fixture) (Report, error) {
	if err := f.Validate(); err != nil {
		return Report{}, err
	}

	report := Report{OK: true}
	for _, tab := range f.Tables {
		factors, err := strategy.Lookup(strategy.ID(tab.Strategy))
		if err != nil {
			return Report{}, err
		}
		m := metrics.Metric(tab.Metric)

		var src metrics.Source
		if m == metrics.Robustness {
			if len(tab.Draws) != len(f.Params.Sizes) {
				return Report{}, fmt.Errorf("table %s_%s: %d draws for %d sizes",
					tab.Strategy, tab.Metric, len(tab.Draws), len(f.Params.Sizes))
			}
			src = metrics.NewFixedSource(tab.Draws)
		}

		values, err := metrics.Series(m, factors, f.Params.Sizes, f.Params.Epsilon, src)
		if err != nil {
			return Report{}, fmt.Errorf("table %s_%s: %w", tab.Strategy, tab.Metric, err)
		}

		tr := compareTable(tab, values)
		if tr.Match {
			report.Matched++
		} else {
			report.OK = false
		}
		report.Tables = append(report.Tables, tr)
	}
	return report, nil
}

func compareTable(tab FixtureTable, got []float64) TableReport {
	tr := TableReport{TableID: tab.Strategy + "_" + tab.Metric, Match: true}
	if len(got) != len(tab.Values) {
		tr.Match = false
		tr.Reason = fmt.Sprintf("recorded %d values, recomputed %d", len(tab.Values), len(got))
		return tr
	}
	for i := range got {
		if math.Abs(got[i]-tab.Values[i]) > matchTolerance {
			tr.Match = false
			tr.Diffs = append(tr.Diffs, TableDiff{Index: i, Want: tab.Values[i], Got: got[i]})
		}
	}
	if !tr.Match {
		tr.Reason = fmt.Sprintf("%d of %d values differ", len(tr.Diffs), len(got))
	}
	return tr
}

// #endregion replay
