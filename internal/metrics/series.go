package metrics

// Series records every metric's Last value per frame.
type Series struct {
	Names  []string
	Times  []float64
	Values [][]float64
}

func NewSeries(names []string) *Series {
	return &Series{
		Names:  names,
		Values: make([][]float64, len(names)),
	}
}

// Record appends one frame. ms must be in the order of Names.
func (s *Series) Record(t float64, ms []Metric) {
	s.Times = append(s.Times, t)
	for i, m := range ms {
		if i < len(s.Values) {
			s.Values[i] = append(s.Values[i], m.Last())
		}
	}
}

func (s *Series) Len() int { return len(s.Times) }

// Column returns the series for one metric, or nil.
func (s *Series) Column(name string) []float64 {
	for i, n := range s.Names {
		if n == name {
			return s.Values[i]
		}
	}
	return nil
}

// Tail returns at most n trailing values of a column.
func (s *Series) Tail(name string, n int) []float64 {
	col := s.Column(name)
	if len(col) > n {
		return col[len(col)-n:]
	}
	return col
}
