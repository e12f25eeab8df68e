package sink

// #region memory-sink

// MemorySink keeps tables in memory. Tests and replay verification use it in
// place of the CSV sink.
type MemorySink struct {
	Headers map[string][]string
	Rows    map[string][][]float64
	order   []string
}

// NewMemorySink creates an empty in-memory recorder.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		Headers: make(map[string][]string),
		Rows:    make(map[string][][]float64),
	}
}

// Write stores copies, so callers may reuse their slices.
func (s *MemorySink) Write(tableID string, header []string, row []float64) error {
	if _, ok := s.Headers[tableID]; !ok {
		s.Headers[tableID] = append([]string(nil), header...)
		s.order = append(s.order, tableID)
	}
	s.Rows[tableID] = append(s.Rows[tableID], append([]float64(nil), row...))
	return nil
}

// TableIDs returns table ids in first-write order.
func (s *MemorySink) TableIDs() []string {
	return append([]string(nil), s.order...)
}

// #endregion
