package flock

import "math"

const (
	DefaultN         = 500
	DefaultDt        = 1.0 / 60.0
	DefaultMaxSpeed  = 100.0
	AttractMaxSpeed  = 75.0
	MinSpeedRatio    = 0.75
	DefaultTurn      = 300.0
	DefaultMargin    = 20.0
	DefaultVisual    = 25.0
	DefaultMinDist   = 7.5
	DefaultCohesion  = 1.0
	DefaultAlignment = 5.0
	DefaultSeparate  = 30.0
)

// Params holds the steering tunables. They may be changed between steps.
type Params struct {
	MaxSpeed         float64 `yaml:"max_speed" toml:"max_speed" json:"max_speed"`
	MinSpeed         float64 `yaml:"min_speed" toml:"min_speed" json:"min_speed"`
	TurnSpeed        float64 `yaml:"turn_speed" toml:"turn_speed" json:"turn_speed"`
	EdgeMargin       float64 `yaml:"edge_margin" toml:"edge_margin" json:"edge_margin"`
	VisualDistance   float64 `yaml:"visual_distance" toml:"visual_distance" json:"visual_distance"`
	MinDistance      float64 `yaml:"min_distance" toml:"min_distance" json:"min_distance"`
	CohesionFactor   float64 `yaml:"cohesion" toml:"cohesion" json:"cohesion"`
	AlignmentFactor  float64 `yaml:"alignment" toml:"alignment" json:"alignment"`
	SeparationFactor float64 `yaml:"separation" toml:"separation" json:"separation"`
}

func DefaultParams() Params {
	return Params{
		MaxSpeed:         DefaultMaxSpeed,
		MinSpeed:         DefaultMaxSpeed * MinSpeedRatio,
		TurnSpeed:        DefaultTurn,
		EdgeMargin:       DefaultMargin,
		VisualDistance:   DefaultVisual,
		MinDistance:      DefaultMinDist,
		CohesionFactor:   DefaultCohesion,
		AlignmentFactor:  DefaultAlignment,
		SeparationFactor: DefaultSeparate,
	}
}

// SetMaxSpeed changes the speed ceiling and re-derives the floor from it.
func (p *Params) SetMaxSpeed(v float64) {
	p.MaxSpeed = v
	p.MinSpeed = v * MinSpeedRatio
}

// Validate rejects parameter sets that would produce nonsensical motion.
func (p Params) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"max_speed", p.MaxSpeed},
		{"min_speed", p.MinSpeed},
		{"turn_speed", p.TurnSpeed},
		{"edge_margin", p.EdgeMargin},
		{"visual_distance", p.VisualDistance},
		{"min_distance", p.MinDistance},
		{"cohesion", p.CohesionFactor},
		{"alignment", p.AlignmentFactor},
		{"separation", p.SeparationFactor},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalid(f.name, f.v, "must be finite")
		}
		if f.v < 0 {
			return invalid(f.name, f.v, "must not be negative")
		}
	}
	if p.MaxSpeed == 0 {
		return invalid("max_speed", p.MaxSpeed, "must be positive")
	}
	if p.MinSpeed >= p.MaxSpeed {
		return invalid("min_speed", p.MinSpeed, "must be below max_speed")
	}
	if p.MinDistance >= p.VisualDistance {
		return invalid("min_distance", p.MinDistance, "must be below visual_distance")
	}
	return nil
}

// ValidateDt rejects a timestep that is not a positive finite number.
func ValidateDt(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return invalid("dt", dt, "must be positive")
	}
	return nil
}
