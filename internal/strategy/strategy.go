package strategy

import "fmt"

// #region strategy-ids

// ID names one of the compared protocol strategies.
type ID string

const (
	AITP ID = "AITP"
	CAIP ID = "CAIP"
	NAP  ID = "NAP"
)

// Reference is the strategy every factor is expressed against; its factors
// are 1.0 across the board.
const Reference = CAIP

// Default is the comparison set used when no strategy list is configured.
// Order is the iteration and report order.
var Default = []ID{AITP, CAIP, NAP}

// #endregion

// #region factor-table

// Factors holds the five per-metric multipliers applied on top of the shared
// baseline formulas.
type Factors struct {
	Latency    float64
	Throughput float64
	Energy     float64
	Privacy    float64
	Robustness float64
}

// Table maps every known strategy to its factor set. Lookups go through
// Lookup so a mistyped identifier fails instead of scaling by zero.
var Table = map[ID]Factors{
	AITP: {
		Latency:    0.9683,
		Throughput: 1.117,
		Energy:     1.27,
		Privacy:    0.875,
		Robustness: 1.335,
	},
	CAIP: {
		Latency:    1.0,
		Throughput: 1.0,
		Energy:     1.0,
		Privacy:    1.0,
		Robustness: 1.0,
	},
	NAP: {
		Latency:    1.35,
		Throughput: 0.5462,
		Energy:     0.78,
		Privacy:    1.2,
		Robustness: 0.8,
	},
}

// #endregion

// #region lookup

// Lookup returns the factor set for id, or an error naming the unknown id.
func Lookup(id ID) (Factors, error) {
	f, ok := Table[id]
	if !ok {
		return Factors{}, fmt.Errorf("unknown strategy %q", id)
	}
	return f, nil
}

// Validate checks that ids is non-empty, every entry is known, and none
// repeats. Runs once at config construction; everything downstream assumes it
// passed.
func Validate(ids []ID) error {
	if len(ids) == 0 {
		return fmt.Errorf("no strategies configured")
	}
	seen := make(map[ID]bool, len(ids))
	for _, id := range ids {
		if _, ok := Table[id]; !ok {
			return fmt.Errorf("unknown strategy %q", id)
		}
		if seen[id] {
			return fmt.Errorf("duplicate strategy %q", id)
		}
		seen[id] = true
	}
	return nil
}

// #endregion

// #region conversions

// IDs converts plain strings (config file, flags) into typed ids, preserving
// order. Validation is separate.
func IDs(names []string) []ID {
	ids := make([]ID, len(names))
	for i, n := range names {
		ids[i] = ID(n)
	}
	return ids
}

// Names is the inverse of IDs.
func Names(ids []ID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}

// #endregion
