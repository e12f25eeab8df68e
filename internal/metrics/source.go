package metrics

import "math/rand/v2"

// #region source

// Source yields uniform draws in [0,1). The robustness model takes its
// failure rates from here so the caller controls determinism: production runs
// hand in the process-seeded generator, replay and tests hand in recorded or
// fixed sequences.
type Source interface {
	Float64() float64
}

// SystemSource draws from the process-seeded global generator.
type SystemSource struct{}

func (SystemSource) Float64() float64 { return rand.Float64() }

// NewSeededSource returns a deterministic source for a fixed seed.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, 0))
}

// #endregion

// #region fixed-source

// FixedSource replays a recorded draw sequence in order. Draws past the end
// of the sequence return 0.
type FixedSource struct {
	seq []float64
	i   int
}

// NewFixedSource creates a source over the given sequence.
func NewFixedSource(seq []float64) *FixedSource {
	return &FixedSource{seq: seq}
}

func (s *FixedSource) Float64() float64 {
	if s.i >= len(s.seq) {
		return 0
	}
	v := s.seq[s.i]
	s.i++
	return v
}

// #endregion

// #region recording-source

// RecordingSource wraps another source and keeps every draw it hands out, so
// a run can be persisted and replayed exactly.
type RecordingSource struct {
	Inner Source
	Draws []float64
}

func (s *RecordingSource) Float64() float64 {
	v := s.Inner.Float64()
	s.Draws = append(s.Draws, v)
	return v
}

// #endregion
