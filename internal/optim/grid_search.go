// Package optim searches flock parameters for a target metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/flocksim/internal/analysis"
	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/metrics"
	"github.com/san-kum/flocksim/internal/sim"
)

var ErrNoValidPoint = errors.New("optim: no parameter combination was valid")

// GridSearch tries every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Skipped counts combinations rejected by parameter validation in the
	// last search.
	Skipped int
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	var probe flock.Params
	for i, name := range params {
		if _, err := analysis.ParamField(&probe, name); err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: no values for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Objective says what to measure and which way is better.
type Objective struct {
	Metric   string
	Frames   int
	Seed     int64
	Maximize bool
}

// Search runs base once per combination and returns the best parameter
// values with their metric average.
func (g *GridSearch) Search(ctx context.Context, base flock.Config, obj Objective) (map[string]float64, float64, error) {
	if obj.Frames <= 0 {
		return nil, 0, fmt.Errorf("optim: frames must be positive, got %d", obj.Frames)
	}
	best := math.Inf(1)
	if obj.Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64
	g.Skipped = 0

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, obj, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoValidPoint
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base flock.Config,
	obj Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		val, ok, err := g.evaluate(ctx, current, base, obj)
		if err != nil || !ok {
			return err
		}
		if (obj.Maximize && val > *best) || (!obj.Maximize && val < *best) {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, base, obj, best, bestParams); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}

// evaluate reports ok=false for combinations the flock rejects.
func (g *GridSearch) evaluate(ctx context.Context, params map[string]float64, base flock.Config, obj Objective) (float64, bool, error) {
	cfg := base
	for name, v := range params {
		field, _ := analysis.ParamField(&cfg.Params, name)
		*field = v
	}
	f, err := flock.New(cfg, rand.New(rand.NewSource(obj.Seed)))
	if errors.Is(err, flock.ErrInvalidConfig) {
		g.Skipped++
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	r := sim.NewRunner(sim.NewSession(f, sim.WithMetrics(metrics.Default()...)))
	r.Pace = false
	r.SummaryEvery = 0
	res, err := r.Run(ctx, obj.Frames)
	if err != nil {
		return 0, false, err
	}
	val, ok := res.Metrics[obj.Metric]
	if !ok {
		return 0, false, fmt.Errorf("optim: unknown metric %q", obj.Metric)
	}
	return val, true, nil
}
