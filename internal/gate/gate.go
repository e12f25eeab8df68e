package gate

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/aitp-bench/internal/metrics"
)

// #region gate
// Gate validates produced series tables before a run is accepted.
type Gate struct {
	config GateConfig
}

// NewGate creates a gate with the given configuration.
func NewGate(config GateConfig) *Gate {
	return &Gate{config: config}
}

// Evaluate runs every structural check against the produced tables and
// collects the findings. A run passes only when no table has any.
func (g *Gate) Evaluate(checks []SeriesCheck) GateDecision {
	var findings []Finding

	for _, c := range checks {
		id := c.TableID()

		// 1. Row length must match the sweep
		if len(c.Values) != len(c.Sizes) {
			findings = append(findings, Finding{
				TableID: id,
				Type:    FindingLength,
				Reason:  fmt.Sprintf("%d values for %d sweep sizes", len(c.Values), len(c.Sizes)),
			})
			continue
		}

		// 2. Every value finite
		clean := true
		for i, v := range c.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				findings = append(findings, Finding{
					TableID: id,
					Type:    FindingNonFinite,
					Reason:  fmt.Sprintf("non-finite value at index %d", i),
				})
				clean = false
				break
			}
		}
		if !clean {
			continue
		}

		// 3. Every value non-negative
		for i, v := range c.Values {
			if v < 0 {
				findings = append(findings, Finding{
					TableID: id,
					Type:    FindingNegative,
					Reason:  fmt.Sprintf("negative value %.4f at index %d", v, i),
				})
				break
			}
		}

		// 4. Robustness stays under the cap
		if c.Metric == metrics.Robustness {
			for i, v := range c.Values {
				if v > g.config.RobustnessCap {
					findings = append(findings, Finding{
						TableID: id,
						Type:    FindingBound,
						Reason:  fmt.Sprintf("robustness %.4f at index %d exceeds cap %.4f", v, i, g.config.RobustnessCap),
					})
					break
				}
			}
		}

		if !g.config.CheckTrends {
			continue
		}

		// 5. Latency must fall as the deployment grows
		if c.Metric == metrics.Latency && !strictlyDecreasing(c.Values) {
			findings = append(findings, Finding{
				TableID: id,
				Type:    FindingTrend,
				Reason:  "latency series not strictly decreasing",
			})
		}

		// 6. Throughput must rise as the deployment grows
		if c.Metric == metrics.Throughput && !strictlyIncreasing(c.Values) {
			findings = append(findings, Finding{
				TableID: id,
				Type:    FindingTrend,
				Reason:  "throughput series not strictly increasing",
			})
		}
	}

	if len(findings) > 0 {
		return GateDecision{
			OK:       false,
			Reason:   fmt.Sprintf("failed gate: %s", findings[0].Reason),
			Findings: findings,
			Checked:  len(checks),
		}
	}

	return GateDecision{
		OK:      true,
		Reason:  fmt.Sprintf("passed gate: %d tables checked", len(checks)),
		Checked: len(checks),
	}
}

// #endregion gate

// #region helpers
// strictlyDecreasing reports whether each value is below its predecessor.
func strictlyDecreasing(vs []float64) bool {
	for i := 1; i < len(vs); i++ {
		if vs[i] >= vs[i-1] {
			return false
		}
	}
	return true
}

// strictlyIncreasing reports whether each value is above its predecessor.
func strictlyIncreasing(vs []float64) bool {
	for i := 1; i < len(vs); i++ {
		if vs[i] <= vs[i-1] {
			return false
		}
	}
	return true
}

// #endregion helpers
