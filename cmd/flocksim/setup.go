package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/san-kum/flocksim/internal/config"
	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/metrics"
	"github.com/san-kum/flocksim/internal/sim"
	"github.com/san-kum/flocksim/internal/storage"
)

// World size for commands with no display to fit.
const (
	headlessWidth  = 800
	headlessHeight = 600
)

// loadConfig resolves the preset, then the config file, then any flags
// that were set explicitly. The returned label names the run.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	label := "classic"

	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, "", fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg, label = p, preset
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		if preset == "" {
			label = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("agents") {
		cfg.Agents = agents
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("attract") {
		cfg.Attract = attract
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, label, nil
}

// newLogger builds the diagnostic logger. Terminal front-ends pass quiet
// so nothing is written over the display unless --log-file is set.
func newLogger(quiet bool) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q", logLevel)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w, closeFn = f, func() { f.Close() }
	case quiet:
		w = io.Discard
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch logFormat {
	case "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		closeFn()
		return nil, nil, fmt.Errorf("invalid log format %q (want text or json)", logFormat)
	}
	return slog.New(h), closeFn, nil
}

// newFlock builds the flock for a world of the given size and loads the
// configured constellation into its target set.
func newFlock(cfg *config.Config, w, h float64) (*flock.Flock, []flock.Target, error) {
	fc, err := cfg.FlockConfig(w, h)
	if err != nil {
		return nil, nil, err
	}
	f, err := flock.New(fc, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, nil, err
	}

	bm, lay, err := cfg.Constellation()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load targets: %w", err)
	}
	targets := bm.Fit(fc.Width, fc.Height, lay, f.Len())
	f.Targets().Fill(targets)
	if cfg.Attract {
		f.SetAttract(true)
	}
	return f, targets, nil
}

func newSession(cfg *config.Config, w, h float64, logger *slog.Logger, extra ...sim.Option) (*sim.Session, error) {
	f, targets, err := newFlock(cfg, w, h)
	if err != nil {
		return nil, err
	}
	opts := append([]sim.Option{
		sim.WithLogger(logger),
		sim.WithMetrics(metrics.Default()...),
		sim.WithDefaultTargets(targets),
	}, extra...)
	return sim.NewSession(f, opts...), nil
}

// terminalSize reports the size of stdout, or 80x24 when it is not a
// terminal.
func terminalSize() (cols, rows int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}

// resolveRun picks the run named in args, or the latest one.
func resolveRun(st *storage.Store, args []string) (*storage.RunMetadata, error) {
	if len(args) > 0 {
		return st.Load(args[0])
	}
	meta, err := st.Latest()
	if err != nil {
		return nil, fmt.Errorf("no run given and none stored: %w", err)
	}
	return meta, nil
}

func metadataFor(cfg *config.Config, label string, s *sim.Session, res *sim.Result) storage.RunMetadata {
	f := s.Flock()
	return storage.RunMetadata{
		Preset:  label,
		Seed:    cfg.Seed,
		Dt:      s.Dt(),
		Frames:  res.Frames,
		Agents:  f.Len(),
		Width:   f.Width(),
		Height:  f.Height(),
		Mode:    f.Mode().String(),
		Workers: cfg.Workers,
		Attract: f.Attracting(),
		Targets: f.Targets().Len(),
		Params:  f.Params,
		Metrics: res.Metrics,
	}
}
