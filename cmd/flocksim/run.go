package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/flocksim/internal/automation"
	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/render"
	"github.com/san-kum/flocksim/internal/sim"
	"github.com/san-kum/flocksim/internal/storage"
)

func runHeadless(cmd *cobra.Command, args []string) error {
	var sc *automation.Scenario
	if path, _ := cmd.Flags().GetString("scenario"); path != "" {
		var err error
		if sc, err = automation.LoadScenario(path); err != nil {
			return err
		}
		if preset == "" && configFile == "" {
			preset = sc.Preset
		}
	}

	cfg, label, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	n, _ := cmd.Flags().GetInt("frames")
	numRuns, _ := cmd.Flags().GetInt("runs")
	paced, _ := cmd.Flags().GetBool("pace")
	skipSave, _ := cmd.Flags().GetBool("no-save")
	if sc != nil && sc.Frames > 0 && !cmd.Flags().Changed("frames") {
		n = sc.Frames
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if numRuns > 1 {
		if sc != nil {
			return fmt.Errorf("--scenario drives a single run; drop --runs")
		}
		fc, err := cfg.FlockConfig(headlessWidth, headlessHeight)
		if err != nil {
			return err
		}
		var targets []flock.Target
		if cfg.Attract {
			bm, lay, err := cfg.Constellation()
			if err != nil {
				return err
			}
			targets = bm.Fit(fc.Width, fc.Height, lay, fc.N)
		}
		return runEnsemble(ctx, fc, targets, cfg.Seed, n, numRuns)
	}

	var script *automation.Script
	var extra []sim.Option
	if sc != nil {
		script = sc.Script()
		extra = append(extra, sim.WithObserver(script))
		if sc.Name != "" {
			label = sc.Name
		}
	}
	s, err := newSession(cfg, headlessWidth, headlessHeight, logger, extra...)
	if err != nil {
		return err
	}
	if script != nil {
		script.Start(s)
	}
	r := sim.NewRunner(s)
	r.Pace = paced

	fmt.Printf("running %s: %d agents, %d frames, seed %d\n", label, cfg.Agents, n, cfg.Seed)
	res, err := r.Run(ctx, n)
	if err != nil && res == nil {
		return err
	}
	if err != nil {
		fmt.Printf("stopped early: %v\n", err)
	}

	fmt.Printf("completed %d frames in %v\n", res.Frames, res.Elapsed.Round(time.Millisecond))
	if script != nil && script.Pending() > 0 {
		fmt.Printf("%d scenario events past the last frame were not fired\n", script.Pending())
	}
	if !skipSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(metadataFor(cfg, label, s, res), res.Series)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", id)
	}

	fmt.Println("\nmetrics:")
	printMetrics(res.Metrics)
	return nil
}

func runEnsemble(ctx context.Context, fc flock.Config, targets []flock.Target, seedStart int64, n, numRuns int) error {
	fmt.Printf("running %d flocks of %d agents for %d frames\n", numRuns, fc.N, n)
	start := time.Now()
	results, err := sim.NewEnsemble(fc, numRuns, seedStart).WithTargets(targets).Run(ctx, n)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start).Round(time.Millisecond))

	names := make([]string, 0)
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "SEED")
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%d", r.Seed)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func printMetrics(ms map[string]float64) {
	names := make([]string, 0, len(ms))
	for name := range ms {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, ms[name])
	}
}

// simulate builds a flock for a world of headless size and steps it n
// frames without a sink.
func simulate(cmd *cobra.Command, n int) (*flock.Flock, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	f, _, err := newFlock(cfg, headlessWidth, headlessHeight)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := f.Step(flock.DefaultDt, nil); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func printFrame(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("frames")
	useBraille, _ := cmd.Flags().GetBool("braille")

	f, err := simulate(cmd, n)
	if err != nil {
		return err
	}

	cols, _ := terminalSize()
	var surface interface {
		render.Surface
		String() string
	}
	rast := render.NewRasterizer(nil)
	if useBraille {
		rast.Scale = float64(cols*2) / f.Width()
		rows := int(math.Ceil(f.Height() * rast.Scale / 4))
		surface = render.NewBraille(cols, rows)
	} else {
		rast.Scale = float64(cols) / f.Width()
		rows := int(math.Ceil(f.Height() * rast.Scale))
		surface = render.NewFrame(cols, rows)
	}
	rast.Surface = surface
	for _, a := range f.Agents() {
		rast.Agent(0, a.Pos, a.Vel)
	}
	fmt.Print(surface.String())
	return nil
}
