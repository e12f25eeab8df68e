package sweep

import (
	"github.com/danielpatrickdp/aitp-bench/internal/gate"
	"github.com/danielpatrickdp/aitp-bench/internal/metrics"
	"github.com/danielpatrickdp/aitp-bench/internal/strategy"
	"github.com/danielpatrickdp/aitp-bench/internal/testbed"
)

// #region params
// Params are the validated inputs of one comparison sweep.
type Params struct {
	Population int           `json:"population"`
	Epsilon    float64       `json:"epsilon"`
	DurationS  float64       `json:"duration_s"`
	Strategies []strategy.ID `json:"strategies"`
	Sizes      []int         `json:"sizes"`
	OutputDir  string        `json:"output_dir"`
	Seed       uint64        `json:"seed,omitempty"` // 0 = process-seeded source
}
// #endregion params

// #region table-result
// TableResult is one produced results table.
type TableResult struct {
	Strategy strategy.ID    `json:"strategy"`
	Metric   metrics.Metric `json:"metric"`
	TableID  string         `json:"table_id"`
	Sizes    []int          `json:"sizes"`
	Values   []float64      `json:"values"`
	Draws    []float64      `json:"draws,omitempty"` // robustness only
}
// #endregion table-result

// #region result
// Result summarizes one completed sweep.
type Result struct {
	RunID       string              `json:"run_id,omitempty"` // empty without a run store
	Params      Params              `json:"params"`
	Environment testbed.Environment `json:"environment"`
	Tables      []TableResult       `json:"tables"`
	Gate        gate.GateDecision   `json:"gate"`
}
// #endregion result
