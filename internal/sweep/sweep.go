package sweep

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/danielpatrickdp/aitp-bench/internal/gate"
	"github.com/danielpatrickdp/aitp-bench/internal/logging"
	"github.com/danielpatrickdp/aitp-bench/internal/metrics"
	"github.com/danielpatrickdp/aitp-bench/internal/sink"
	"github.com/danielpatrickdp/aitp-bench/internal/state"
	"github.com/danielpatrickdp/aitp-bench/internal/strategy"
	"github.com/danielpatrickdp/aitp-bench/internal/testbed"
)

// #region runner-struct

// Runner coordinates one comparison sweep: every strategy in declared order,
// every metric in fixed order, one series table each.
type Runner struct {
	recorder sink.Recorder
	store    *state.Store
	source   metrics.Source
	gate     *gate.Gate
	logger   *slog.Logger
}

// #endregion

// #region constructor

// NewRunner creates a fully wired runner. store may be nil to skip run
// history, g and logger may be nil for defaults.
func NewRunner(rec sink.Recorder, store *state.Store, src metrics.Source, g *gate.Gate, logger *slog.Logger) *Runner {
	if g == nil {
		g = gate.NewGate(gate.DefaultGateConfig())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		recorder: rec,
		store:    store,
		source:   src,
		gate:     g,
		logger:   logger,
	}
}

// #endregion

// #region run

// Run sweeps every strategy × metric table, writes each series to the
// recorder, and evaluates the gate over everything produced. Strictly
// sequential: robustness draws happen in a fixed, reproducible order.
func (r *Runner) Run(p Params, env testbed.Environment) (Result, error) {
	if err := strategy.Validate(p.Strategies); err != nil {
		return Result{}, err
	}
	if len(p.Sizes) == 0 {
		return Result{}, fmt.Errorf("no sweep sizes")
	}

	r.logger.Info("running sweep",
		"population", p.Population,
		"epsilon", p.Epsilon,
		"duration_s", p.DurationS,
		"strategies", strategy.Names(p.Strategies),
		"sizes", p.Sizes)
	r.logger.Info("testbed planned", "env", env.Summary())

	runID := r.beginRun(p, env)
	header := sink.HeaderColumns(p.Sizes)

	var tables []TableResult
	var checks []gate.SeriesCheck
	seq := 0
	for _, id := range p.Strategies {
		factors, err := strategy.Lookup(id)
		if err != nil {
			return Result{}, r.fail(runID, err)
		}

		for _, m := range metrics.Order {
			src := r.source
			var recording *metrics.RecordingSource
			if m == metrics.Robustness {
				recording = &metrics.RecordingSource{Inner: r.source}
				src = recording
			}

			values, err := metrics.Series(m, factors, p.Sizes, p.Epsilon, src)
			if err != nil {
				return Result{}, r.fail(runID, err)
			}

			tableID := fmt.Sprintf("%s_%s", id, m)
			if err := r.recorder.Write(tableID, header, values); err != nil {
				return Result{}, r.fail(runID, fmt.Errorf("write %s: %w", tableID, err))
			}

			var draws []float64
			if recording != nil {
				draws = recording.Draws
			}
			r.appendSeries(runID, id, m, seq, p.Sizes, values, draws)

			tables = append(tables, TableResult{
				Strategy: id,
				Metric:   m,
				TableID:  tableID,
				Sizes:    p.Sizes,
				Values:   values,
				Draws:    draws,
			})
			checks = append(checks, gate.SeriesCheck{
				Strategy: string(id),
				Metric:   m,
				Sizes:    p.Sizes,
				Values:   values,
			})
			seq++
		}

		r.logger.Info("metrics written", "strategy", id, "tables", len(metrics.Order))
	}

	decision := r.gate.Evaluate(checks)
	r.finishRun(runID, decision)
	r.logger.Info("sweep complete", "run_id", runID, "gate", decision.Reason)

	return Result{
		RunID:       runID,
		Params:      p,
		Environment: env,
		Tables:      tables,
		Gate:        decision,
	}, nil
}

// #endregion

// #region store-hooks

// beginRun opens a history record when a store is attached. History is
// best-effort: store failures are logged, never fatal.
func (r *Runner) beginRun(p Params, env testbed.Environment) string {
	if r.store == nil {
		return ""
	}
	envJSON, _ := json.Marshal(env)
	rec, err := r.store.BeginRun(state.RunRecord{
		Population:  p.Population,
		Epsilon:     p.Epsilon,
		DurationS:   p.DurationS,
		Strategies:  strategy.Names(p.Strategies),
		SweepSizes:  p.Sizes,
		OutputDir:   p.OutputDir,
		Environment: string(envJSON),
	})
	if err != nil {
		r.logger.Warn("begin run history", "error", err)
		return ""
	}
	pJSON, _ := json.Marshal(p)
	r.recordEvent(rec.RunID, "run_started", string(pJSON))
	return rec.RunID
}

// appendSeries records one produced table when a store is attached.
func (r *Runner) appendSeries(runID string, id strategy.ID, m metrics.Metric, seq int, sizes []int, values, draws []float64) {
	if runID == "" {
		return
	}
	rows := make([]state.SeriesRow, len(values))
	for i, v := range values {
		rows[i] = state.SeriesRow{
			Strategy: string(id),
			Metric:   string(m),
			Seq:      seq,
			Idx:      i,
			N:        sizes[i],
			Value:    v,
		}
		if draws != nil {
			rows[i].Draw = draws[i]
			rows[i].HasDraw = true
		}
	}
	if err := r.store.AppendSeries(runID, rows); err != nil {
		r.logger.Warn("record series", "table", string(id)+"_"+string(m), "error", err)
	}
}

// finishRun closes the history record with the gate verdict.
func (r *Runner) finishRun(runID string, decision gate.GateDecision) {
	if runID == "" {
		return
	}
	findings := ""
	if len(decision.Findings) > 0 {
		if b, err := json.Marshal(decision.Findings); err == nil {
			findings = string(b)
		}
	}
	if err := r.store.FinishRun(runID, state.StatusDone, decision.OK, findings); err != nil {
		r.logger.Warn("finish run", "error", err)
	}
	r.recordEvent(runID, "run_finished", decision.Reason)
}

// fail marks the history record failed before surfacing the error.
func (r *Runner) fail(runID string, err error) error {
	if runID != "" {
		if ferr := r.store.FinishRun(runID, state.StatusFailed, false, ""); ferr != nil {
			r.logger.Warn("mark run failed", "error", ferr)
		}
		r.recordEvent(runID, "run_failed", err.Error())
	}
	return err
}

// recordEvent appends one lifecycle entry to the run's event trail.
func (r *Runner) recordEvent(runID, kind, detail string) {
	if runID == "" {
		return
	}
	entry := logging.EventEntry{RunID: runID, Kind: kind, Detail: detail}
	if err := logging.LogEvent(r.store.DB(), entry); err != nil {
		r.logger.Warn("record event", "kind", kind, "error", err)
	}
}

// #endregion
