package report

import (
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/aitp-bench/internal/gate"
	"github.com/danielpatrickdp/aitp-bench/internal/logging"
	"github.com/danielpatrickdp/aitp-bench/internal/metrics"
	"github.com/danielpatrickdp/aitp-bench/internal/replay"
	"github.com/danielpatrickdp/aitp-bench/internal/state"
	"github.com/danielpatrickdp/aitp-bench/internal/strategy"
	"github.com/danielpatrickdp/aitp-bench/internal/sweep"
)

// #region helpers

func sampleResult() sweep.Result {
	sizes := []int{50, 100}
	return sweep.Result{
		Params: sweep.Params{
			Population: 500,
			Epsilon:    1.0,
			DurationS:  10,
			Strategies: []strategy.ID{strategy.CAIP},
			Sizes:      sizes,
		},
		Tables: []sweep.TableResult{
			{Strategy: strategy.CAIP, Metric: metrics.Latency, TableID: "CAIP_latency", Sizes: sizes, Values: []float64{14, 12}},
			{Strategy: strategy.CAIP, Metric: metrics.Throughput, TableID: "CAIP_throughput", Sizes: sizes, Values: []float64{97.743, 117.542}},
			{Strategy: strategy.CAIP, Metric: metrics.Energy, TableID: "CAIP_energy", Sizes: sizes, Values: []float64{20, 40}},
			{Strategy: strategy.CAIP, Metric: metrics.Privacy, TableID: "CAIP_privacy", Sizes: sizes, Values: []float64{2, 2}},
			{Strategy: strategy.CAIP, Metric: metrics.Robustness, TableID: "CAIP_robustness", Sizes: sizes, Values: []float64{1, 0.75}, Draws: []float64{0, 0.5}},
		},
		Gate: gate.GateDecision{OK: true, Reason: "passed gate: 5 tables checked", Checked: 5},
	}
}

func sampleRun() state.RunRecord {
	return state.RunRecord{
		RunID:      "a1b2c3d4-e5f6-7890-abcd-ef0123456789",
		StartedAt:  time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 8, 14, 10, 0, 2, 0, time.UTC),
		Population: 500,
		Epsilon:    1.0,
		DurationS:  10,
		Strategies: []string{"AITP", "CAIP"},
		SweepSizes: []int{50, 100},
		OutputDir:  "./results",
		Status:     state.StatusDone,
		GateOK:     true,
	}
}

// #endregion helpers

// #region comparison-tests

func TestComparison(t *testing.T) {
	out := Comparison(sampleResult())

	if !strings.Contains(out, "strategy") || !strings.Contains(out, "latency") {
		t.Error("missing header")
	}
	if !strings.Contains(out, "CAIP") {
		t.Error("missing strategy row")
	}
	for _, v := range []string{"12.000", "117.542", "40.000", "2.000", "0.750"} {
		if !strings.Contains(out, v) {
			t.Errorf("missing last-size value %s in: %s", v, out)
		}
	}
	if !strings.Contains(out, "nSta=100") {
		t.Error("missing size note")
	}
	if !strings.Contains(out, "gate: passed gate") {
		t.Error("missing gate line")
	}
}

func TestComparison_Empty(t *testing.T) {
	if out := Comparison(sweep.Result{}); out != "" {
		t.Errorf("expected empty render, got %q", out)
	}
}

func TestComparison_MissingTable(t *testing.T) {
	res := sampleResult()
	res.Tables = res.Tables[:1] // latency only

	out := Comparison(res)
	if !strings.Contains(out, "12.000") {
		t.Error("missing latency value")
	}
	if !strings.Contains(out, "-") {
		t.Error("expected placeholder for absent tables")
	}
}

// #endregion comparison-tests

// #region run-list-tests

func TestRunList(t *testing.T) {
	running := sampleRun()
	running.RunID = "ffffffff-0000-0000-0000-000000000000"
	running.Status = state.StatusRunning
	running.FinishedAt = time.Time{}

	out := RunList([]state.RunRecord{sampleRun(), running})

	if !strings.Contains(out, "a1b2c3d4") {
		t.Error("missing shortened run id")
	}
	if strings.Contains(out, "a1b2c3d4-e5f6") {
		t.Error("run id should be shortened in the list")
	}
	if !strings.Contains(out, "2026-08-14 10:00:00") {
		t.Error("missing start time")
	}
	if !strings.Contains(out, "pass") {
		t.Error("missing gate verdict for the finished run")
	}
	if !strings.Contains(out, "running") {
		t.Error("missing running status")
	}
	if !strings.Contains(out, "(2 runs)") {
		t.Error("missing run count")
	}
}

func TestRunList_GateFail(t *testing.T) {
	failed := sampleRun()
	failed.GateOK = false

	out := RunList([]state.RunRecord{failed})
	if !strings.Contains(out, "fail") {
		t.Error("missing gate fail label")
	}
}

func TestRunList_Empty(t *testing.T) {
	out := RunList(nil)
	if !strings.Contains(out, "no recorded runs") {
		t.Errorf("expected empty-state message, got %q", out)
	}
}

// #endregion run-list-tests

// #region run-detail-tests

func TestRunDetail(t *testing.T) {
	points := []state.SeriesRow{
		{Seq: 0, Idx: 0, Strategy: "AITP", Metric: "latency", N: 50, Value: 13.5562},
		{Seq: 0, Idx: 1, Strategy: "AITP", Metric: "latency", N: 100, Value: 11.6196},
		{Seq: 1, Idx: 0, Strategy: "AITP", Metric: "throughput", N: 50, Value: 109.179},
		{Seq: 1, Idx: 1, Strategy: "AITP", Metric: "throughput", N: 100, Value: 131.297},
	}
	events := []logging.EventEntry{
		{RunID: "a1b2c3d4", Kind: "run_started", CreatedAt: time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)},
		{RunID: "a1b2c3d4", Kind: "run_finished", Detail: "passed gate: 10 tables checked", CreatedAt: time.Date(2026, 8, 14, 10, 0, 2, 0, time.UTC)},
	}

	out := RunDetail(sampleRun(), points, events)

	if !strings.Contains(out, "run a1b2c3d4-e5f6-7890-abcd-ef0123456789") {
		t.Error("missing full run id")
	}
	if !strings.Contains(out, "population: 500") {
		t.Error("missing population")
	}
	if !strings.Contains(out, "strategies: AITP, CAIP") {
		t.Error("missing strategies")
	}
	if !strings.Contains(out, "50, 100") {
		t.Error("missing sizes")
	}
	if !strings.Contains(out, "gate:       pass") {
		t.Error("missing gate verdict")
	}
	if !strings.Contains(out, "AITP_latency") || !strings.Contains(out, "13.556") {
		t.Error("missing latency table")
	}
	if !strings.Contains(out, "AITP_throughput") || !strings.Contains(out, "131.297") {
		t.Error("missing throughput table")
	}
	if !strings.Contains(out, "events:") || !strings.Contains(out, "run_started") {
		t.Error("missing event trail")
	}
	if !strings.Contains(out, "passed gate: 10 tables checked") {
		t.Error("missing event detail")
	}
}

func TestRunDetail_InProgress(t *testing.T) {
	rec := sampleRun()
	rec.Status = state.StatusRunning
	rec.FinishedAt = time.Time{}

	out := RunDetail(rec, nil, nil)

	if !strings.Contains(out, "finished:   -") {
		t.Error("expected placeholder finish time")
	}
	if !strings.Contains(out, "gate:       -") {
		t.Error("expected placeholder gate verdict")
	}
	if strings.Contains(out, "events:") {
		t.Error("event section should be absent without events")
	}
}

// #endregion run-detail-tests

// #region replay-text-tests

func TestReplayText_AllMatch(t *testing.T) {
	rep := replay.Report{
		OK:      true,
		Matched: 2,
		Tables: []replay.TableReport{
			{TableID: "CAIP_latency", Match: true},
			{TableID: "CAIP_energy", Match: true},
		},
	}

	out := ReplayText(rep)
	if !strings.Contains(out, "replayed 2 tables: 2 matched") {
		t.Errorf("missing header, got %q", out)
	}
	if !strings.Contains(out, "all tables match") {
		t.Error("missing clean verdict")
	}
	if strings.Contains(out, "CAIP_latency") {
		t.Error("matching tables should not be listed")
	}
}

func TestReplayText_Mismatch(t *testing.T) {
	rep := replay.Report{
		OK:      false,
		Matched: 1,
		Tables: []replay.TableReport{
			{TableID: "CAIP_latency", Match: true},
			{
				TableID: "AITP_energy",
				Match:   false,
				Reason:  "1 of 2 values differ",
				Diffs:   []replay.TableDiff{{Index: 1, Want: 50.8, Got: 50.55}},
			},
		},
	}

	out := ReplayText(rep)
	if !strings.Contains(out, "1 mismatched") {
		t.Error("missing mismatch count")
	}
	if !strings.Contains(out, "AITP_energy") || !strings.Contains(out, "1 of 2 values differ") {
		t.Error("missing mismatched table line")
	}
	if !strings.Contains(out, "[1] recorded 50.800000 recomputed 50.550000") {
		t.Errorf("missing diff line, got %q", out)
	}
	if strings.Contains(out, "CAIP_latency") {
		t.Error("matching tables should not be listed")
	}
}

// #endregion replay-text-tests
