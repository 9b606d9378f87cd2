// Package flock implements the boids steering rule over a fixed population
// in a bounded plane.
package flock

import (
	"math/rand"
	"sync"

	"github.com/san-kum/flocksim/internal/geom"
)

// Agent is one boid.
type Agent struct {
	Pos geom.Vec2 `json:"pos"`
	Vel geom.Vec2 `json:"vel"`
}

// Mode selects how a step sees agents that were already advanced.
type Mode int

const (
	// Snapshot reads every other agent's pre-step state. Results do not
	// depend on iteration order.
	Snapshot Mode = iota
	// InPlace updates agents one at a time, so later agents see the new
	// state of earlier ones.
	InPlace
)

func (m Mode) String() string {
	if m == InPlace {
		return "inplace"
	}
	return "snapshot"
}

// ParseMode accepts "snapshot" and "inplace".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "snapshot":
		return Snapshot, nil
	case "inplace", "in-place":
		return InPlace, nil
	}
	return Snapshot, invalid("mode", s, "want snapshot or inplace")
}

// minChunk is the smallest agent range handed to a worker.
const minChunk = 64

// Sink receives each agent once its state for the step is final.
type Sink interface {
	Agent(i int, pos, vel geom.Vec2)
}

// Config fixes the world for the lifetime of a Flock.
type Config struct {
	Width   float64
	Height  float64
	N       int
	Params  Params
	Mode    Mode
	Workers int
}

func (c Config) Validate() error {
	if c.N <= 0 {
		return invalid("n", c.N, "must be positive")
	}
	if !(c.Width > 0) {
		return invalid("width", c.Width, "must be positive")
	}
	if !(c.Height > 0) {
		return invalid("height", c.Height, "must be positive")
	}
	if c.Mode != Snapshot && c.Mode != InPlace {
		return invalid("mode", int(c.Mode), "unknown update mode")
	}
	if c.Workers < 0 {
		return invalid("workers", c.Workers, "must not be negative")
	}
	return c.Params.Validate()
}

type Flock struct {
	Params Params

	width   float64
	height  float64
	mode    Mode
	workers int

	agents    []Agent
	prev      []Agent
	neighbors []int32
	targets   *TargetSet
	attract   bool
	cruise    float64
	rng       *rand.Rand
}

// New places cfg.N agents uniformly at random inside the world with small
// random velocities. rng drives both placement and later scatters.
func New(cfg Config, rng *rand.Rand) (*Flock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	f := &Flock{
		Params:    cfg.Params,
		width:     cfg.Width,
		height:    cfg.Height,
		mode:      cfg.Mode,
		workers:   cfg.Workers,
		agents:    make([]Agent, cfg.N),
		neighbors: make([]int32, cfg.N),
		targets:   NewTargetSet(cfg.N),
		rng:       rng,
	}
	if f.mode == Snapshot {
		f.prev = make([]Agent, cfg.N)
	}
	for i := range f.agents {
		f.agents[i] = Agent{
			Pos: geom.V(rng.Float64()*f.width, rng.Float64()*f.height),
			Vel: f.randomVel(),
		}
	}
	return f, nil
}

func (f *Flock) randomVel() geom.Vec2 {
	return geom.V(f.rng.Float64()-0.5, f.rng.Float64()-0.5)
}

func (f *Flock) Width() float64  { return f.width }
func (f *Flock) Height() float64 { return f.height }
func (f *Flock) Len() int        { return len(f.agents) }
func (f *Flock) Mode() Mode      { return f.mode }

// Agents exposes the live population. The slice is overwritten by Step.
func (f *Flock) Agents() []Agent { return f.agents }

// SetAgent overwrites agent i. It must not be called during Step.
func (f *Flock) SetAgent(i int, a Agent) { f.agents[i] = a }

// Neighbors returns the per-agent neighbor counts from the last step.
func (f *Flock) Neighbors() []int32 { return f.neighbors }

func (f *Flock) Targets() *TargetSet { return f.targets }

func (f *Flock) Attracting() bool { return f.attract }

// SetAttract switches attractor steering. Attracting caps MaxSpeed at
// AttractMaxSpeed; switching off restores the max speed in effect before
// the attractor came on (DefaultMaxSpeed for default params).
func (f *Flock) SetAttract(on bool) {
	switch {
	case on && !f.attract:
		f.cruise = f.Params.MaxSpeed
		f.Params.SetMaxSpeed(AttractMaxSpeed)
	case !on && f.attract:
		f.Params.SetMaxSpeed(f.cruise)
	}
	f.attract = on
}

// Scatter re-randomizes every velocity. Positions are kept.
func (f *Flock) Scatter() {
	for i := range f.agents {
		f.agents[i].Vel = f.randomVel()
	}
}

// Step advances all agents by dt. sink may be nil.
func (f *Flock) Step(dt float64, sink Sink) error {
	if err := ValidateDt(dt); err != nil {
		return err
	}
	if f.mode == InPlace {
		for i := range f.agents {
			a, n := f.advance(i, f.agents[i], f.agents, dt)
			f.agents[i] = a
			f.neighbors[i] = n
			if sink != nil {
				sink.Agent(i, a.Pos, a.Vel)
			}
		}
		return nil
	}

	copy(f.prev, f.agents)
	f.parallel(len(f.agents), func(start, end int) {
		for i := start; i < end; i++ {
			f.agents[i], f.neighbors[i] = f.advance(i, f.prev[i], f.prev, dt)
		}
	})
	if sink != nil {
		for i, a := range f.agents {
			sink.Agent(i, a.Pos, a.Vel)
		}
	}
	return nil
}

// parallel splits [0, n) into contiguous chunks, one goroutine each.
func (f *Flock) parallel(n int, fn func(start, end int)) {
	workers := f.workers
	if workers > n/minChunk {
		workers = n / minChunk
	}
	if workers <= 1 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// advance computes agent i's next state from a, scanning src for
// neighbors. src[i] is skipped.
func (f *Flock) advance(i int, a Agent, src []Agent, dt float64) (Agent, int32) {
	p := &f.Params

	a.Pos = a.Pos.Add(a.Vel.Scale(dt))

	var center, avgVel, push geom.Vec2
	var count int32
	for j := range src {
		if j == i {
			continue
		}
		b := &src[j]
		d := b.Pos.Sub(a.Pos).Len()
		if d > 0 && d < p.VisualDistance {
			center = center.Add(b.Pos)
			avgVel = avgVel.Add(b.Vel)
			count++
			if d < p.MinDistance {
				push = push.Add(a.Pos.Sub(b.Pos))
			}
		}
	}

	if count > 0 {
		c := float64(count)
		center = geom.V(center.X/c, center.Y/c)
		avgVel = geom.V(avgVel.X/c, avgVel.Y/c)
		a.Vel = a.Vel.Add(center.Sub(a.Pos).Scale(p.CohesionFactor * dt))
		// Alignment blends from the post-cohesion velocity.
		a.Vel = a.Vel.Add(avgVel.Sub(a.Vel).Scale(p.AlignmentFactor * dt))
	}

	a.Vel = a.Vel.Add(push.Scale(p.SeparationFactor * dt))

	if f.attract {
		if idx, ok := TargetIndex(i, len(src), f.targets.Len()); ok {
			a.Vel = a.Vel.Add(f.targets.At(idx).Vec().Sub(a.Pos))
		}
	}

	speed := a.Vel.Len()
	if speed > p.MaxSpeed {
		a.Vel = geom.V(a.Vel.X/speed*p.MaxSpeed, a.Vel.Y/speed*p.MaxSpeed)
	} else if speed < p.MinSpeed && speed >= geom.Epsilon {
		a.Vel = geom.V(a.Vel.X/speed*p.MinSpeed, a.Vel.Y/speed*p.MinSpeed)
	}

	// Edge steering runs after the clamp and may overshoot MaxSpeed.
	turn := p.TurnSpeed * dt
	if a.Pos.X > f.width-p.EdgeMargin {
		a.Vel.X -= turn
	} else if a.Pos.X < p.EdgeMargin {
		a.Vel.X += turn
	}
	if a.Pos.Y > f.height-p.EdgeMargin {
		a.Vel.Y -= turn
	} else if a.Pos.Y < p.EdgeMargin {
		a.Vel.Y += turn
	}

	return a, count
}

// MeanNeighbors averages the neighbor counts of the last step.
func (f *Flock) MeanNeighbors() float64 {
	if len(f.neighbors) == 0 {
		return 0
	}
	var sum int64
	for _, n := range f.neighbors {
		sum += int64(n)
	}
	return float64(sum) / float64(len(f.neighbors))
}
