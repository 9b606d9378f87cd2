package analysis

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/metrics"
)

// SweepPoint is the steady-state order of the flock at one parameter value.
type SweepPoint struct {
	Param        float64
	Polarization float64
	Neighbors    float64
}

// ParamField resolves a Params field by its config name.
func ParamField(p *flock.Params, name string) (*float64, error) {
	switch name {
	case "cohesion":
		return &p.CohesionFactor, nil
	case "alignment":
		return &p.AlignmentFactor, nil
	case "separation":
		return &p.SeparationFactor, nil
	case "visual_distance":
		return &p.VisualDistance, nil
	case "min_distance":
		return &p.MinDistance, nil
	case "turn_speed":
		return &p.TurnSpeed, nil
	case "edge_margin":
		return &p.EdgeMargin, nil
	}
	return nil, fmt.Errorf("analysis: cannot sweep %q", name)
}

// Sweep steps a parameter across [lo, hi] and records the mean
// polarization and neighbor count after a transient. This shows the
// order/disorder transition, for example as alignment rises from zero.
func Sweep(cfg flock.Config, seed int64, param string, lo, hi float64, steps, transient, record int) ([]SweepPoint, error) {
	if _, err := ParamField(&cfg.Params, param); err != nil {
		return nil, err
	}
	if steps < 1 {
		steps = 1
	}

	results := make([]SweepPoint, 0, steps)
	for s := 0; s < steps; s++ {
		v := lo
		if steps > 1 {
			v = lo + (hi-lo)*float64(s)/float64(steps-1)
		}
		c := cfg
		field, _ := ParamField(&c.Params, param)
		*field = v

		f, err := flock.New(c, rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil, fmt.Errorf("analysis: %s=%g: %w", param, v, err)
		}
		for i := 0; i < transient; i++ {
			f.Step(flock.DefaultDt, nil)
		}

		pol := metrics.NewPolarization()
		nb := metrics.NewMeanNeighbors()
		for i := 0; i < record; i++ {
			f.Step(flock.DefaultDt, nil)
			sample := metrics.SampleOf(f, transient+i, 0)
			pol.Observe(sample)
			nb.Observe(sample)
		}
		results = append(results, SweepPoint{Param: v, Polarization: pol.Value(), Neighbors: nb.Value()})
	}
	return results, nil
}
