package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/flocksim/internal/config"
	"github.com/san-kum/flocksim/internal/export"
	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/geom"
	"github.com/san-kum/flocksim/internal/metrics"
	"github.com/san-kum/flocksim/internal/render"
)

func exportSVG(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("frames")
	path, _ := cmd.Flags().GetString("output")
	useBraille, _ := cmd.Flags().GetBool("braille")
	sc, _ := cmd.Flags().GetFloat64("scale")

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, _, err := newFlock(cfg, headlessWidth, headlessHeight)
	if err != nil {
		return err
	}

	// The centroid path goes to a second file next to the frame.
	path2 := strings.TrimSuffix(path, ".svg") + "_centroid.svg"
	centroid := make([]geom.Vec2, 0, n)
	for i := 0; i < n; i++ {
		if err := f.Step(flock.DefaultDt, nil); err != nil {
			return err
		}
		centroid = append(centroid, metrics.Centroid(f.Agents()))
	}

	var svg string
	if useBraille {
		cols := int(math.Ceil(f.Width() / 2))
		rows := int(math.Ceil(f.Height() / 4))
		b := render.NewBraille(cols, rows)
		r := render.NewRasterizer(b)
		for _, a := range f.Agents() {
			r.Agent(0, a.Pos, a.Vel)
		}
		svg = export.GridToSVG(b, sc)
	} else {
		svg = export.FlockToSVG(f, sc)
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)

	if traj := export.TrajectoryToSVG(centroid, 600, 400, "#00ccff"); traj != "" {
		if err := os.WriteFile(path2, []byte(traj), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path2)
	}
	return nil
}

func exportState(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("frames")
	path, _ := cmd.Flags().GetString("output")

	f, err := simulate(cmd, n)
	if err != nil {
		return err
	}
	snap := export.Capture(f, n, float64(n)*flock.DefaultDt)
	snap.Metrics = map[string]float64{}
	sample := metrics.SampleOf(f, n, snap.Time)
	for _, m := range metrics.Default() {
		m.Observe(sample)
		snap.Metrics[m.Name()] = m.Value()
	}
	if err := export.WriteFile(path, snap); err != nil {
		return err
	}
	fmt.Printf("wrote %d agents to %s\n", f.Len(), path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tAGENTS\tATTRACT\tVISUAL\tCOHESION\tALIGNMENT\tSEPARATION")
	for _, name := range config.ListPresets() {
		p, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%g\t%g\t%g\t%g\n",
			name, p.Agents, p.Attract,
			p.Params.VisualDistance, p.Params.CohesionFactor, p.Params.AlignmentFactor, p.Params.SeparationFactor)
	}
	return w.Flush()
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	useTOML, _ := cmd.Flags().GetBool("toml")
	data, err := config.Marshal(cfg, useTOML)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func benchStep(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("frames")
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cases := []struct {
		name    string
		mode    flock.Mode
		workers int
	}{
		{"snapshot", flock.Snapshot, 0},
		{"inplace", flock.InPlace, 0},
		{"snapshot/4", flock.Snapshot, 4},
		{"snapshot/8", flock.Snapshot, 8},
	}

	fmt.Printf("benchmarking %d agents, %d frames\n\n", cfg.Agents, n)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tFRAMES\tTIME\tPER FRAME\tFRAMES/SEC")

	for _, c := range cases {
		fc, err := cfg.FlockConfig(headlessWidth, headlessHeight)
		if err != nil {
			return err
		}
		fc.Mode, fc.Workers = c.mode, c.workers
		f, err := flock.New(fc, rand.New(rand.NewSource(cfg.Seed)))
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < n; i++ {
			if err := f.Step(flock.DefaultDt, nil); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%v\t%v\t%.0f\n",
			c.name, n, elapsed.Round(time.Microsecond), (elapsed / time.Duration(max(n, 1))).Round(time.Microsecond),
			float64(n)/elapsed.Seconds())
	}

	return w.Flush()
}
