package gate

import "github.com/danielpatrickdp/aitp-bench/internal/metrics"

// #region finding-type
// FindingType enumerates structural check categories.
type FindingType string

const (
	FindingLength    FindingType = "length_mismatch"
	FindingNonFinite FindingType = "non_finite"
	FindingNegative  FindingType = "negative_value"
	FindingBound     FindingType = "bound_exceeded"
	FindingTrend     FindingType = "trend_violation"
)

// #endregion finding-type

// #region finding
// Finding reports one failed check on a produced table.
type Finding struct {
	TableID string      `json:"table_id"`
	Type    FindingType `json:"type"`
	Reason  string      `json:"reason"`
}

// #endregion finding

// #region gate-config
// GateConfig holds thresholds for result validation.
type GateConfig struct {
	RobustnessCap float64 // hard upper bound on any robustness value
	CheckTrends   bool    // verify latency falls and throughput rises across the sweep
}

// DefaultGateConfig returns caps matching the built-in strategy table.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		RobustnessCap: 1.335, // largest robustness factor times a zero failure rate
		CheckTrends:   true,
	}
}

// #endregion gate-config

// #region series-check
// SeriesCheck is one produced table queued for gate evaluation.
type SeriesCheck struct {
	Strategy string
	Metric   metrics.Metric
	Sizes    []int
	Values   []float64
}

// TableID returns the results table identifier for the check.
func (c SeriesCheck) TableID() string {
	return c.Strategy + "_" + string(c.Metric)
}

// #endregion series-check

// #region gate-decision
// GateDecision is the output of the gate evaluation.
type GateDecision struct {
	OK       bool      `json:"ok"`
	Reason   string    `json:"reason"`
	Findings []Finding `json:"findings,omitempty"`
	Checked  int       `json:"checked"`
}

// #endregion gate-decision
