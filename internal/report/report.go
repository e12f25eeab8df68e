package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/aitp-bench/internal/logging"
	"github.com/danielpatrickdp/aitp-bench/internal/metrics"
	"github.com/danielpatrickdp/aitp-bench/internal/replay"
	"github.com/danielpatrickdp/aitp-bench/internal/state"
	"github.com/danielpatrickdp/aitp-bench/internal/sweep"
)

const timeLayout = "2006-01-02 15:04:05"

// #region comparison

// Comparison renders the end-of-sweep strategy matrix: one row per strategy,
// one column per metric, values taken at the largest swept size.
func Comparison(res sweep.Result) string {
	if len(res.Tables) == 0 || len(res.Params.Sizes) == 0 {
		return ""
	}

	last := make(map[string]float64, len(res.Tables))
	for _, tab := range res.Tables {
		if len(tab.Values) > 0 {
			last[tab.TableID] = tab.Values[len(tab.Values)-1]
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-10s", "strategy"))
	for _, m := range metrics.Order {
		b.WriteString(fmt.Sprintf("%12s", string(m)))
	}
	b.WriteString("\n")

	for _, id := range res.Params.Strategies {
		b.WriteString(fmt.Sprintf("%-10s", string(id)))
		for _, m := range metrics.Order {
			v, ok := last[fmt.Sprintf("%s_%s", id, m)]
			if !ok {
				b.WriteString(fmt.Sprintf("%12s", "-"))
				continue
			}
			b.WriteString(fmt.Sprintf("%12.3f", v))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("(values at nSta=%d, epsilon=%g)\n",
		res.Params.Sizes[len(res.Params.Sizes)-1], res.Params.Epsilon))
	b.WriteString(fmt.Sprintf("gate: %s\n", res.Gate.Reason))
	return b.String()
}

// #endregion comparison

// #region run-list

// RunList renders the recorded runs as a fixed-width table, newest first.
func RunList(runs []state.RunRecord) string {
	if len(runs) == 0 {
		return "no recorded runs\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-10s %-19s %-8s %6s %6s %6s  %s\n",
		"run", "started", "status", "pop", "eps", "sizes", "gate"))
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%-10s %-19s %-8s %6d %6.2f %6d  %s\n",
			shortID(r.RunID),
			r.StartedAt.Format(timeLayout),
			r.Status,
			r.Population,
			r.Epsilon,
			len(r.SweepSizes),
			gateLabel(r)))
	}
	b.WriteString(fmt.Sprintf("(%d runs)\n", len(runs)))
	return b.String()
}

// #endregion run-list

// #region run-detail

// RunDetail renders one run's parameters, every recorded table, and its
// event trail.
func RunDetail(rec state.RunRecord, points []state.SeriesRow, events []logging.EventEntry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("run %s\n", rec.RunID))
	b.WriteString(fmt.Sprintf("  started:    %s\n", rec.StartedAt.Format(timeLayout)))
	if rec.FinishedAt.IsZero() {
		b.WriteString("  finished:   -\n")
	} else {
		b.WriteString(fmt.Sprintf("  finished:   %s\n", rec.FinishedAt.Format(timeLayout)))
	}
	b.WriteString(fmt.Sprintf("  status:     %s\n", rec.Status))
	b.WriteString(fmt.Sprintf("  population: %d\n", rec.Population))
	b.WriteString(fmt.Sprintf("  epsilon:    %g\n", rec.Epsilon))
	b.WriteString(fmt.Sprintf("  duration:   %gs\n", rec.DurationS))
	b.WriteString(fmt.Sprintf("  strategies: %s\n", strings.Join(rec.Strategies, ", ")))
	b.WriteString(fmt.Sprintf("  sizes:      %s\n", intList(rec.SweepSizes)))
	b.WriteString(fmt.Sprintf("  output:     %s\n", rec.OutputDir))
	b.WriteString(fmt.Sprintf("  gate:       %s\n", gateLabel(rec)))

	if len(points) > 0 {
		b.WriteString("\n")
		curSeq := -1
		for _, p := range points {
			if p.Seq != curSeq {
				if curSeq != -1 {
					b.WriteString("\n")
				}
				b.WriteString(fmt.Sprintf("%-18s", p.Strategy+"_"+p.Metric))
				curSeq = p.Seq
			}
			b.WriteString(fmt.Sprintf("%10.3f", p.Value))
		}
		b.WriteString("\n")
	}

	if len(events) > 0 {
		b.WriteString("\nevents:\n")
		for _, e := range events {
			b.WriteString(fmt.Sprintf("  %s  %-12s %s\n",
				e.CreatedAt.Format(timeLayout), e.Kind, e.Detail))
		}
	}
	return b.String()
}

// #endregion run-detail

// #region replay-text

// ReplayText renders a replay outcome: one header line, then one line per
// mismatched table with its value diffs.
func ReplayText(rep replay.Report) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("replayed %d tables: %d matched", len(rep.Tables), rep.Matched))
	mismatched := len(rep.Tables) - rep.Matched
	if mismatched > 0 {
		b.WriteString(fmt.Sprintf(", %d mismatched", mismatched))
	}
	b.WriteString("\n")

	if rep.OK {
		b.WriteString("all tables match\n")
		return b.String()
	}

	for _, tr := range rep.Tables {
		if tr.Match {
			continue
		}
		b.WriteString(fmt.Sprintf("  %-18s %s\n", tr.TableID, tr.Reason))
		for _, d := range tr.Diffs {
			b.WriteString(fmt.Sprintf("    [%d] recorded %.6f recomputed %.6f\n", d.Index, d.Want, d.Got))
		}
	}
	return b.String()
}

// #endregion replay-text

// #region helpers

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// gateLabel summarizes the stored verdict: "-" until the run finishes.
func gateLabel(rec state.RunRecord) string {
	switch rec.Status {
	case state.StatusDone:
		if rec.GateOK {
			return "pass"
		}
		return "fail"
	default:
		return "-"
	}
}

func intList(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

// #endregion helpers
