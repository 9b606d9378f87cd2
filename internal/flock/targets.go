package flock

import "github.com/san-kum/flocksim/internal/geom"

// Target is an attraction point in pixel coordinates.
type Target struct {
	X int32 `json:"x" yaml:"x"`
	Y int32 `json:"y" yaml:"y"`
}

func (t Target) Vec() geom.Vec2 { return geom.V(float64(t.X), float64(t.Y)) }

// TargetSet is an append-ordered collection of targets with a fixed cap.
// Order decides which agents are pulled toward which point.
type TargetSet struct {
	pts []Target
	cap int
}

func NewTargetSet(capacity int) *TargetSet {
	if capacity < 0 {
		capacity = 0
	}
	return &TargetSet{pts: make([]Target, 0, capacity), cap: capacity}
}

// Add appends p, or returns ErrTargetsFull once the cap is reached.
func (s *TargetSet) Add(p Target) error {
	if len(s.pts) >= s.cap {
		return ErrTargetsFull
	}
	s.pts = append(s.pts, p)
	return nil
}

// Fill appends points until the set is full and returns how many were taken.
func (s *TargetSet) Fill(pts []Target) int {
	n := 0
	for _, p := range pts {
		if s.Add(p) != nil {
			break
		}
		n++
	}
	return n
}

func (s *TargetSet) Clear()          { s.pts = s.pts[:0] }
func (s *TargetSet) Len() int        { return len(s.pts) }
func (s *TargetSet) Cap() int        { return s.cap }
func (s *TargetSet) At(i int) Target { return s.pts[i] }

// Points returns a copy of the targets in append order.
func (s *TargetSet) Points() []Target {
	out := make([]Target, len(s.pts))
	copy(out, s.pts)
	return out
}

// TargetIndex maps agent i of n onto one of m targets:
// floor(i / (n/m)), clamped to the last target. Only an empty target set
// or an agent outside [0, n) has no target.
func TargetIndex(i, n, m int) (int, bool) {
	if m <= 0 || n <= 0 || i < 0 || i >= n {
		return 0, false
	}
	// i*m/n is the same floor without rounding through float64.
	idx := i * m / n
	if idx >= m {
		idx = m - 1
	}
	return idx, true
}
