package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/aitp-bench/internal/state"
	"github.com/danielpatrickdp/aitp-bench/internal/testbed"
)

// FixtureVersion is the format written by this build.
const FixtureVersion = 1

// #region fixture-types

// Fixture is the top-level JSON structure for a recorded run.
type Fixture struct {
	Version     int                 `json:"version"`
	Description string              `json:"description,omitempty"`
	RunID       string              `json:"run_id,omitempty"`
	Params      FixtureParams       `json:"params"`
	Environment testbed.Environment `json:"environment"`
	Tables      []FixtureTable      `json:"tables"`
}

// FixtureParams mirrors the sweep parameters with JSON tags.
type FixtureParams struct {
	Population int      `json:"population"`
	Epsilon    float64  `json:"epsilon"`
	DurationS  float64  `json:"duration_s"`
	Strategies []string `json:"strategies"`
	Sizes      []int    `json:"sizes"`
}

// FixtureTable is one recorded results table. Draws carries the uniform
// failure-rate sequence for robustness tables so a replay reproduces the
// stochastic column exactly.
type FixtureTable struct {
	Strategy string    `json:"strategy"`
	Metric   string    `json:"metric"`
	Values   []float64 `json:"values"`
	Draws    []float64 `json:"draws,omitempty"`
}

// #endregion fixture-types

// #region fixture-io

// LoadFixture reads, parses, and validates a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

// SaveFixture writes a fixture as indented JSON.
func SaveFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// Validate checks the parts of a fixture the replay computation depends on.
func (f *Fixture) Validate() error {
	if f.Version != FixtureVersion {
		return fmt.Errorf("unsupported fixture version %d", f.Version)
	}
	if f.Params.Epsilon <= 0 {
		return fmt.Errorf("invalid epsilon %v", f.Params.Epsilon)
	}
	if len(f.Params.Sizes) == 0 {
		return fmt.Errorf("no sweep sizes")
	}
	for _, n := range f.Params.Sizes {
		if n <= 0 {
			return fmt.Errorf("invalid sweep size %d", n)
		}
	}
	return nil
}

// #endregion fixture-io

// #region from-run

// FromRun builds a fixture out of a stored run and its series points. Points
// are expected in store order (seq, then idx).
func FromRun(rec state.RunRecord, points []state.SeriesRow) (*Fixture, error) {
	f := &Fixture{
		Version: FixtureVersion,
		RunID:   rec.RunID,
		Params: FixtureParams{
			Population: rec.Population,
			Epsilon:    rec.Epsilon,
			DurationS:  rec.DurationS,
			Strategies: rec.Strategies,
			Sizes:      rec.SweepSizes,
		},
	}
	if rec.Environment != "" {
		if err := json.Unmarshal([]byte(rec.Environment), &f.Environment); err != nil {
			return nil, fmt.Errorf("parse environment: %w", err)
		}
	}

	curSeq := -1
	for _, p := range points {
		if p.Seq != curSeq {
			f.Tables = append(f.Tables, FixtureTable{Strategy: p.Strategy, Metric: p.Metric})
			curSeq = p.Seq
		}
		tab := &f.Tables[len(f.Tables)-1]
		tab.Values = append(tab.Values, p.Value)
		if p.HasDraw {
			tab.Draws = append(tab.Draws, p.Draw)
		}
	}

	return f, nil
}

// #endregion from-run
