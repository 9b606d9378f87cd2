package sim

import (
	"context"
	"time"

	"github.com/san-kum/flocksim/internal/flock"
)

// Runner paces a session at one step per dt of wall time, or as fast as
// possible when Pace is false. The simulated timestep is fixed either way.
type Runner struct {
	Session *Session
	Sink    flock.Sink
	Pace    bool
	// SummaryEvery logs a progress line every n frames; 0 disables it.
	SummaryEvery int
	// OnTick runs after every Advance, on the runner's goroutine.
	OnTick func(Tick)
}

func NewRunner(s *Session) *Runner {
	return &Runner{Session: s, Pace: true, SummaryEvery: 300}
}

// Run advances until frames steps have completed or ctx is done. frames
// of zero runs until cancellation.
func (r *Runner) Run(ctx context.Context, frames int) (*Result, error) {
	s := r.Session
	log := s.logger

	if !r.Pace && (s.paused || s.edit) {
		return nil, ErrPaused
	}

	period := time.Duration(float64(time.Second) * s.dt)
	var ticker *time.Ticker
	if r.Pace {
		ticker = time.NewTicker(period)
		defer ticker.Stop()
	}

	res := &Result{}
	start := time.Now()
	startFrame := s.frame
	log.Info("run start", "frames", frames, "agents", s.flock.Len(), "mode", s.flock.Mode().String(), "paced", r.Pace)

	for frames == 0 || s.frame-startFrame < frames {
		if err := ctx.Err(); err != nil {
			r.finish(res, start, startFrame)
			log.Info("run canceled", "frame", s.frame)
			return res, err
		}

		begin := time.Now()
		tick, err := s.Advance(r.Sink)
		if err != nil {
			r.finish(res, start, startFrame)
			return res, err
		}
		if r.OnTick != nil {
			r.OnTick(tick)
		}

		if !tick.Stepped && !r.Pace {
			r.finish(res, start, startFrame)
			return res, ErrPaused
		}
		if took := time.Since(begin); r.Pace && took > period {
			res.Overruns++
			log.Debug("frame overrun", "frame", s.frame, "took", took, "budget", period)
		}
		if tick.Stepped && r.SummaryEvery > 0 && s.frame%r.SummaryEvery == 0 {
			r.summary(start, startFrame)
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}
	}

	r.finish(res, start, startFrame)
	log.Info("run done", "frames", res.Frames, "elapsed", res.Elapsed, "overruns", res.Overruns)
	return res, nil
}

func (r *Runner) summary(start time.Time, startFrame int) {
	s := r.Session
	elapsed := time.Since(start).Seconds()
	fps := 0.0
	if elapsed > 0 {
		fps = float64(s.frame-startFrame) / elapsed
	}
	attrs := []any{"frame", s.frame, "fps", fps}
	for _, m := range s.metrics {
		attrs = append(attrs, m.Name(), m.Last())
	}
	s.logger.Info("progress", attrs...)
}

func (r *Runner) finish(res *Result, start time.Time, startFrame int) {
	s := r.Session
	res.Frames = s.frame - startFrame
	res.Elapsed = time.Since(start)
	res.Metrics = s.MetricValues()
	res.Series = s.series
}
