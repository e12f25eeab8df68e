package metrics

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/aitp-bench/internal/strategy"
)

// #region metric-names

// Metric names one of the five reported quantities. The string form is used
// in table ids, file names, and store rows.
type Metric string

const (
	Latency    Metric = "latency"
	Throughput Metric = "throughput"
	Energy     Metric = "energy"
	Privacy    Metric = "privacy"
	Robustness Metric = "robustness"
)

// Order is the fixed iteration order for every sweep and report.
var Order = []Metric{Latency, Throughput, Energy, Privacy, Robustness}

// #endregion

// #region baselines

// LatencyBaseline models per-round latency in milliseconds: a fixed cost plus
// a contention term that shrinks as the population grows.
func LatencyBaseline(n int) float64 { return 10 + 200/float64(n) }

// ThroughputBaseline models aggregate throughput in Mbit/s, growing
// logarithmically with population size.
func ThroughputBaseline(n int) float64 { return 30 * math.Log(1+float64(n)/2) }

// EnergyBaseline models energy efficiency, linear in population size.
func EnergyBaseline(n int) float64 { return 0.4 * float64(n) }

// PrivacyBaseline models privacy loss under budget epsilon. Independent of
// population size; a tighter budget means a larger loss.
func PrivacyBaseline(epsilon float64) float64 { return 2 / epsilon }

// RobustnessBaseline maps a uniform failure-rate draw into (0.5, 1].
func RobustnessBaseline(failureRate float64) float64 { return 1 - 0.5*failureRate }

// #endregion

// #region computation

// Value computes one metric value for one swept size: baseline times the
// strategy factor. Robustness consumes one draw from src per call; the other
// four metrics are deterministic and never touch it. Inputs are assumed
// validated (positive n, positive epsilon).
func Value(m Metric, f strategy.Factors, n int, epsilon float64, src Source) (float64, error) {
	switch m {
	case Latency:
		return LatencyBaseline(n) * f.Latency, nil
	case Throughput:
		return ThroughputBaseline(n) * f.Throughput, nil
	case Energy:
		return EnergyBaseline(n) * f.Energy, nil
	case Privacy:
		return PrivacyBaseline(epsilon) * f.Privacy, nil
	case Robustness:
		return RobustnessBaseline(src.Float64()) * f.Robustness, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", m)
	}
}

// Series computes one value per swept size, in size order. Robustness draws
// one failure rate per size, so a series of k sizes consumes exactly k draws.
func Series(m Metric, f strategy.Factors, sizes []int, epsilon float64, src Source) ([]float64, error) {
	out := make([]float64, len(sizes))
	for i, n := range sizes {
		v, err := Value(m, f, n, epsilon, src)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// #endregion
