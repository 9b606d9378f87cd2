// Package metrics measures flock state once per frame.
package metrics

import "github.com/san-kum/flocksim/internal/flock"

// Sample is one frame of flock state as seen by a metric. Slices alias the
// flock and are only valid during Observe.
type Sample struct {
	Frame     int
	Time      float64
	Agents    []flock.Agent
	Neighbors []int32
	Params    flock.Params
}

func SampleOf(f *flock.Flock, frame int, t float64) Sample {
	return Sample{
		Frame:     frame,
		Time:      t,
		Agents:    f.Agents(),
		Neighbors: f.Neighbors(),
		Params:    f.Params,
	}
}

// Metric accumulates a per-frame measurement. Value is the run average,
// Last the most recent frame.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Last() float64
	Reset()
}

// Default returns a fresh instance of every built-in metric.
func Default() []Metric {
	return []Metric{
		NewMeanSpeed(),
		NewPolarization(),
		NewMeanNeighbors(),
		NewSpeedBound(),
		NewSpread(),
	}
}

// Names lists metric names in order.
func Names(ms []Metric) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name()
	}
	return out
}

// running keeps the mean and last value of a scalar stream.
type running struct {
	sum     float64
	last    float64
	samples int
}

func (r *running) add(v float64) {
	r.sum += v
	r.last = v
	r.samples++
}

func (r *running) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.sum / float64(r.samples)
}

func (r *running) Last() float64 { return r.last }

func (r *running) Reset() { *r = running{} }
