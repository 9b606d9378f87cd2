package sim

import (
	"context"
	"math/rand"
	"sync"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/metrics"
)

// Ensemble runs the same flock configuration under consecutive seeds,
// one goroutine per run. Runs are unpaced and share nothing.
type Ensemble struct {
	cfg       flock.Config
	numRuns   int
	seedStart int64
	targets   []flock.Target
}

func NewEnsemble(cfg flock.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

// WithTargets seeds every run's target set with pts and switches
// attraction on.
func (e *Ensemble) WithTargets(pts []flock.Target) *Ensemble {
	e.targets = pts
	return e
}

func (e *Ensemble) Run(ctx context.Context, frames int) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := e.seedStart + int64(idx)
			f, err := flock.New(e.cfg, rand.New(rand.NewSource(seed)))
			if err != nil {
				errs[idx] = err
				return
			}
			if len(e.targets) > 0 {
				f.Targets().Fill(e.targets)
				f.SetAttract(true)
			}

			r := NewRunner(NewSession(f, WithMetrics(metrics.Default()...)))
			r.Pace = false
			r.SummaryEvery = 0
			res, err := r.Run(ctx, frames)
			if res != nil {
				res.Seed = seed
			}
			results[idx], errs[idx] = res, err
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
