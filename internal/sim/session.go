// Package sim drives a flock at a fixed timestep and applies user input
// between steps.
package sim

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/metrics"
)

// Session owns a flock and its mode flags. Send may be called from any
// goroutine; everything else belongs to the goroutine that calls Advance.
type Session struct {
	flock *flock.Flock
	dt    float64

	paused bool
	edit   bool
	frame  int
	time   float64

	defaults  []flock.Target
	metrics   []metrics.Metric
	series    *metrics.Series
	observers []Observer
	logger    *slog.Logger

	mu      sync.Mutex
	pending []Command
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics observes ms every frame and records them in a Series.
func WithMetrics(ms ...metrics.Metric) Option {
	return func(s *Session) {
		s.metrics = append(s.metrics, ms...)
	}
}

func WithObserver(o Observer) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}

// WithDefaultTargets sets the constellation restored by CmdDefaultTargets.
func WithDefaultTargets(pts []flock.Target) Option {
	return func(s *Session) { s.defaults = pts }
}

// NewSession wraps f. The timestep is always flock.DefaultDt.
func NewSession(f *flock.Flock, opts ...Option) *Session {
	s := &Session{
		flock:  f,
		dt:     flock.DefaultDt,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.metrics) > 0 {
		s.series = metrics.NewSeries(metrics.Names(s.metrics))
	}
	return s
}

func (s *Session) Flock() *flock.Flock       { return s.flock }
func (s *Session) Dt() float64               { return s.dt }
func (s *Session) Paused() bool              { return s.paused }
func (s *Session) Editing() bool             { return s.edit }
func (s *Session) Frame() int                { return s.frame }
func (s *Session) Time() float64             { return s.time }
func (s *Session) Metrics() []metrics.Metric { return s.metrics }
func (s *Session) Series() *metrics.Series   { return s.series }
func (s *Session) Logger() *slog.Logger      { return s.logger }

// Send queues a command for the next Advance.
func (s *Session) Send(cmd Command) {
	s.mu.Lock()
	s.pending = append(s.pending, cmd)
	s.mu.Unlock()
}

// Apply runs queued commands now. Advance calls it first; callers that
// do not advance (a paused UI, for instance) may call it directly.
func (s *Session) Apply() error {
	s.mu.Lock()
	cmds := s.pending
	s.pending = nil
	s.mu.Unlock()

	var errs []error
	for _, cmd := range cmds {
		if err := s.apply(cmd); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Session) apply(cmd Command) error {
	f := s.flock
	switch cmd.Kind {
	case CmdPause:
		s.paused = !s.paused
	case CmdScatter:
		f.Scatter()
	case CmdAttract:
		f.SetAttract(!f.Attracting())
	case CmdEdit:
		s.edit = !s.edit
	case CmdClearTargets:
		f.Targets().Clear()
	case CmdAddTarget:
		if err := f.Targets().Add(cmd.Target); err != nil {
			s.logger.Debug("target rejected", "x", cmd.Target.X, "y", cmd.Target.Y, "err", err)
			return err
		}
	case CmdDefaultTargets:
		f.Targets().Clear()
		f.Targets().Fill(s.defaults)
	}
	s.logger.Info("command",
		"cmd", cmd.Kind.String(),
		"frame", s.frame,
		"paused", s.paused,
		"edit", s.edit,
		"attract", f.Attracting(),
		"targets", f.Targets().Len(),
	)
	return nil
}

// Advance applies pending input, then steps once unless paused or editing.
// A paused session neither steps nor asks for a redraw. In edit mode the
// current state is re-emitted to sink so placed targets can be seen.
// Rejected commands are logged, not returned.
func (s *Session) Advance(sink flock.Sink) (Tick, error) {
	if err := s.Apply(); err != nil {
		s.logger.Warn("commands rejected", "frame", s.frame, "err", err)
	}
	if s.paused {
		return Tick{Frame: s.frame}, nil
	}
	if s.edit {
		if sink != nil {
			for i, a := range s.flock.Agents() {
				sink.Agent(i, a.Pos, a.Vel)
			}
		}
		return Tick{Redraw: true, Frame: s.frame}, nil
	}

	if err := s.flock.Step(s.dt, sink); err != nil {
		return Tick{Frame: s.frame}, err
	}
	s.frame++
	s.time += s.dt

	if len(s.metrics) > 0 {
		sample := metrics.SampleOf(s.flock, s.frame, s.time)
		for _, m := range s.metrics {
			m.Observe(sample)
		}
		s.series.Record(s.time, s.metrics)
	}
	for _, o := range s.observers {
		o.OnFrame(s.frame, s.time, s.flock)
	}
	return Tick{Stepped: true, Redraw: true, Frame: s.frame}, nil
}

// MetricValues returns the run average of every metric by name.
func (s *Session) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
