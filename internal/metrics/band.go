package metrics

import "github.com/san-kum/flocksim/internal/flock"

// SpeedBound is the fraction of agents whose speed lies inside
// [MinSpeed, MaxSpeed]. Agents steering off an edge may overshoot, so
// values slightly under 1 are normal.
type SpeedBound struct {
	running
	tolerance float64
}

func NewSpeedBound() *SpeedBound {
	return &SpeedBound{tolerance: 1e-9}
}

func (m *SpeedBound) Name() string { return "speed_bound" }

func (m *SpeedBound) Observe(s Sample) {
	m.add(InBand(s.Agents, s.Params, m.tolerance))
}

func InBand(agents []flock.Agent, p flock.Params, tol float64) float64 {
	if len(agents) == 0 {
		return 1
	}
	in := 0
	for _, a := range agents {
		v := a.Vel.Len()
		if v >= p.MinSpeed-tol && v <= p.MaxSpeed+tol {
			in++
		}
	}
	return float64(in) / float64(len(agents))
}

type MeanNeighbors struct{ running }

func NewMeanNeighbors() *MeanNeighbors { return &MeanNeighbors{} }

func (m *MeanNeighbors) Name() string { return "mean_neighbors" }

func (m *MeanNeighbors) Observe(s Sample) {
	if len(s.Neighbors) == 0 {
		m.add(0)
		return
	}
	var sum int64
	for _, n := range s.Neighbors {
		sum += int64(n)
	}
	m.add(float64(sum) / float64(len(s.Neighbors)))
}
