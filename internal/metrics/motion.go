package metrics

import (
	"math"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/geom"
)

type MeanSpeed struct{ running }

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(s Sample) { m.add(AverageSpeed(s.Agents)) }

func AverageSpeed(agents []flock.Agent) float64 {
	if len(agents) == 0 {
		return 0
	}
	var sum float64
	for _, a := range agents {
		sum += a.Vel.Len()
	}
	return sum / float64(len(agents))
}

// Polarization is the flock order parameter |sum of unit headings| / N.
// 1 means every agent flies the same way, 0 means headings cancel out.
type Polarization struct{ running }

func NewPolarization() *Polarization { return &Polarization{} }

func (m *Polarization) Name() string { return "polarization" }

func (m *Polarization) Observe(s Sample) { m.add(Order(s.Agents)) }

func Order(agents []flock.Agent) float64 {
	var sum geom.Vec2
	n := 0
	for _, a := range agents {
		if a.Vel.LenSqr() < geom.Epsilon*geom.Epsilon {
			continue
		}
		sum = sum.Add(a.Vel.Normalize())
		n++
	}
	if n == 0 {
		return 0
	}
	return sum.Len() / float64(n)
}

// Spread is the RMS distance of agents from their centroid.
type Spread struct{ running }

func NewSpread() *Spread { return &Spread{} }

func (m *Spread) Name() string { return "spread" }

func (m *Spread) Observe(s Sample) { m.add(RMSRadius(s.Agents)) }

func Centroid(agents []flock.Agent) geom.Vec2 {
	var c geom.Vec2
	if len(agents) == 0 {
		return c
	}
	for _, a := range agents {
		c = c.Add(a.Pos)
	}
	return c.Scale(1 / float64(len(agents)))
}

func RMSRadius(agents []flock.Agent) float64 {
	if len(agents) == 0 {
		return 0
	}
	c := Centroid(agents)
	var sum float64
	for _, a := range agents {
		sum += a.Pos.Sub(c).LenSqr()
	}
	return math.Sqrt(sum / float64(len(agents)))
}
