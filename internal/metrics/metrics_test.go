package metrics

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/aitp-bench/internal/strategy"
)

var defaultSizes = []int{50, 100, 200, 300, 400, 500}

func mustFactors(t *testing.T, id strategy.ID) strategy.Factors {
	t.Helper()
	f, err := strategy.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", id, err)
	}
	return f
}

func TestSeries_LengthMatchesSizes(t *testing.T) {
	for _, id := range strategy.Default {
		f := mustFactors(t, id)
		for _, m := range Order {
			got, err := Series(m, f, defaultSizes, 1.0, SystemSource{})
			if err != nil {
				t.Fatalf("Series(%s, %s): %v", m, id, err)
			}
			if len(got) != len(defaultSizes) {
				t.Errorf("Series(%s, %s) length = %d, want %d", m, id, len(got), len(defaultSizes))
			}
		}
	}
}

func TestReferenceStrategy_EqualsBaseline(t *testing.T) {
	f := mustFactors(t, strategy.Reference)
	epsilon := 1.0

	for _, n := range defaultSizes {
		if got, _ := Value(Latency, f, n, epsilon, nil); got != LatencyBaseline(n) {
			t.Errorf("latency(n=%d) = %v, want baseline %v", n, got, LatencyBaseline(n))
		}
		if got, _ := Value(Throughput, f, n, epsilon, nil); got != ThroughputBaseline(n) {
			t.Errorf("throughput(n=%d) = %v, want baseline %v", n, got, ThroughputBaseline(n))
		}
		if got, _ := Value(Energy, f, n, epsilon, nil); got != EnergyBaseline(n) {
			t.Errorf("energy(n=%d) = %v, want baseline %v", n, got, EnergyBaseline(n))
		}
		if got, _ := Value(Privacy, f, n, epsilon, nil); got != PrivacyBaseline(epsilon) {
			t.Errorf("privacy(n=%d) = %v, want baseline %v", n, got, PrivacyBaseline(epsilon))
		}
	}
}

func TestNonReferenceStrategies_ScaleByFactor(t *testing.T) {
	epsilon := 0.7

	for _, id := range []strategy.ID{strategy.AITP, strategy.NAP} {
		f := mustFactors(t, id)
		for _, n := range defaultSizes {
			checks := []struct {
				metric Metric
				want   float64
			}{
				{Latency, LatencyBaseline(n) * f.Latency},
				{Throughput, ThroughputBaseline(n) * f.Throughput},
				{Energy, EnergyBaseline(n) * f.Energy},
				{Privacy, PrivacyBaseline(epsilon) * f.Privacy},
			}
			for _, c := range checks {
				got, err := Value(c.metric, f, n, epsilon, nil)
				if err != nil {
					t.Fatalf("Value(%s, %s): %v", c.metric, id, err)
				}
				if got != c.want {
					t.Errorf("%s %s(n=%d) = %v, want %v", id, c.metric, n, got, c.want)
				}
			}
		}
	}
}

func TestLatency_StrictlyDecreasing(t *testing.T) {
	f := mustFactors(t, strategy.AITP)
	series, err := Series(Latency, f, defaultSizes, 1.0, nil)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	for i := 1; i < len(series); i++ {
		if series[i] >= series[i-1] {
			t.Errorf("latency not decreasing at n=%d: %v >= %v", defaultSizes[i], series[i], series[i-1])
		}
	}
}

func TestThroughput_StrictlyIncreasing(t *testing.T) {
	f := mustFactors(t, strategy.NAP)
	series, err := Series(Throughput, f, defaultSizes, 1.0, nil)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	for i := 1; i < len(series); i++ {
		if series[i] <= series[i-1] {
			t.Errorf("throughput not increasing at n=%d: %v <= %v", defaultSizes[i], series[i], series[i-1])
		}
	}
}

func TestEnergy_LinearInPopulation(t *testing.T) {
	f := mustFactors(t, strategy.Reference)
	for _, n := range []int{50, 100, 250} {
		single, _ := Value(Energy, f, n, 1.0, nil)
		double, _ := Value(Energy, f, 2*n, 1.0, nil)
		if double != 2*single {
			t.Errorf("energy(2*%d) = %v, want %v", n, double, 2*single)
		}
	}
}

func TestPrivacy_IndependentOfSizeInverseInEpsilon(t *testing.T) {
	f := mustFactors(t, strategy.Reference)

	series, err := Series(Privacy, f, defaultSizes, 1.0, nil)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	for i, v := range series {
		if v != 2.0 {
			t.Errorf("privacy at n=%d with epsilon=1.0 = %v, want 2.0", defaultSizes[i], v)
		}
	}

	halved, _ := Value(Privacy, f, 500, 0.5, nil)
	if halved != 4.0 {
		t.Errorf("privacy with epsilon=0.5 = %v, want 4.0", halved)
	}
}

func TestRobustness_BoundsAndVariation(t *testing.T) {
	f := mustFactors(t, strategy.AITP)

	series, err := Series(Robustness, f, defaultSizes, 1.0, SystemSource{})
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	for i, v := range series {
		if v < 0 || v > 1.335 {
			t.Errorf("robustness at n=%d = %v, outside [0, 1.335]", defaultSizes[i], v)
		}
	}

	// Repeated draws must not be constant.
	src := NewSeededSource(7)
	constant := true
	first, _ := Value(Robustness, f, 50, 1.0, src)
	for i := 0; i < 32; i++ {
		v, _ := Value(Robustness, f, 50, 1.0, src)
		if v != first {
			constant = false
			break
		}
	}
	if constant {
		t.Error("robustness produced a constant value over 33 draws")
	}
}

func TestRobustness_ExactWithFixedDraws(t *testing.T) {
	f := mustFactors(t, strategy.NAP)
	draws := []float64{0, 0.5, 0.9}
	sizes := []int{50, 100, 200}

	series, err := Series(Robustness, f, sizes, 1.0, NewFixedSource(draws))
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	for i, d := range draws {
		want := (1 - 0.5*d) * f.Robustness
		if series[i] != want {
			t.Errorf("robustness with draw %v = %v, want %v", d, series[i], want)
		}
	}
}

func TestWorkedExample_ReferenceLatency(t *testing.T) {
	f := mustFactors(t, strategy.Reference)
	want := []float64{14.0, 12.0, 11.0, 10.667, 10.5, 10.4}

	series, err := Series(Latency, f, defaultSizes, 1.0, nil)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	for i := range want {
		if math.Abs(series[i]-want[i]) > 0.001 {
			t.Errorf("latency at n=%d = %v, want about %v", defaultSizes[i], series[i], want[i])
		}
	}
}

func TestValue_UnknownMetric(t *testing.T) {
	f := mustFactors(t, strategy.CAIP)
	if _, err := Value("jitter", f, 50, 1.0, nil); err == nil {
		t.Fatal("expected error for unknown metric")
	}
}

func TestFixedSource_ReplaysThenZero(t *testing.T) {
	src := NewFixedSource([]float64{0.25, 0.75})
	if got := src.Float64(); got != 0.25 {
		t.Errorf("first draw = %v, want 0.25", got)
	}
	if got := src.Float64(); got != 0.75 {
		t.Errorf("second draw = %v, want 0.75", got)
	}
	if got := src.Float64(); got != 0 {
		t.Errorf("exhausted draw = %v, want 0", got)
	}
}

func TestRecordingSource_CapturesDraws(t *testing.T) {
	rec := &RecordingSource{Inner: NewFixedSource([]float64{0.1, 0.2, 0.3})}
	f := mustFactors(t, strategy.CAIP)

	if _, err := Series(Robustness, f, []int{50, 100, 200}, 1.0, rec); err != nil {
		t.Fatalf("Series: %v", err)
	}
	if len(rec.Draws) != 3 {
		t.Fatalf("recorded %d draws, want 3", len(rec.Draws))
	}
	for i, want := range []float64{0.1, 0.2, 0.3} {
		if rec.Draws[i] != want {
			t.Errorf("draw %d = %v, want %v", i, rec.Draws[i], want)
		}
	}
}
