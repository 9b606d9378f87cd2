package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/flocksim/internal/analysis"
	"github.com/san-kum/flocksim/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tAGENTS\tFRAMES\tMODE\tATTRACT\tPOLARIZATION")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%v\t%.3f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Agents,
			run.Frames,
			run.Mode,
			run.Attract,
			run.Metrics["polarization"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(meta.ID)
	if err != nil {
		return err
	}
	if series.Len() < 2 {
		return fmt.Errorf("run %s has no data to plot", meta.ID)
	}

	only, _ := cmd.Flags().GetString("metric")
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("agents: %d  frames: %d\n\n", meta.Agents, series.Len())

	plotted := 0
	for _, name := range series.Names {
		if only != "" && name != only {
			continue
		}
		graph := asciigraph.Plot(series.Column(name),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs frame"),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}
	if plotted == 0 {
		return fmt.Errorf("unknown metric %q (have %v)", only, series.Names)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(meta.ID)
	if err != nil {
		return err
	}

	xName, _ := cmd.Flags().GetString("x")
	yName, _ := cmd.Flags().GetString("y")
	xs, ys := series.Column(xName), series.Column(yName)
	if xs == nil || ys == nil {
		return fmt.Errorf("unknown metric (have %v)", series.Names)
	}

	fmt.Printf("phase plot: %s\n", meta.ID)
	fmt.Printf("x: %s  y: %s\n\n", xName, yName)
	fmt.Print(analysis.PhasePlot(xs, ys, 60, 20))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(meta.ID)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("metric")
	data := series.Column(name)
	if len(data) == 0 {
		return fmt.Errorf("no %s data in run %s", name, meta.ID)
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX\tFINAL")
	for _, n := range series.Names {
		s := analysis.Summarize(series.Column(n))
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n", n, s.Mean, s.StdDev, s.Min, s.Max, s.Final)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 4 {
		graph := asciigraph.Plot(ps[1:len(ps)/2],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+name+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	peak, ok := analysis.DominantPeak(data, meta.Dt)
	if !ok {
		fmt.Printf("%s shows no oscillation\n", name)
		return nil
	}
	fmt.Printf("dominant frequency: %.3f hz\n", peak.Frequency)
	fmt.Printf("period: %.3f s\n", peak.Period)
	return nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	lo, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("lo: %w", err)
	}
	hi, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("hi: %w", err)
	}
	steps, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("steps: %w", err)
	}
	record, _ := cmd.Flags().GetInt("frames")

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fc, err := cfg.FlockConfig(headlessWidth, headlessHeight)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s from %g to %g (%d steps)\n\n", args[0], lo, hi, steps)
	points, err := analysis.Sweep(fc, cfg.Seed, args[0], lo, hi, steps, record, record)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPOLARIZATION\tNEIGHBORS\n", args[0])
	pol := make([]float64, len(points))
	for i, p := range points {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.2f\n", p.Param, p.Polarization, p.Neighbors)
		pol[i] = p.Polarization
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(pol) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(pol, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("polarization vs "+args[0])))
	}
	return nil
}

func divergeRun(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("frames")
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fc, err := cfg.FlockConfig(headlessWidth, headlessHeight)
	if err != nil {
		return err
	}
	lambda, err := analysis.Divergence(fc, cfg.Seed, 1e-6, n)
	if err != nil {
		return err
	}
	fmt.Printf("divergence rate: %.4f per second over %d frames\n", lambda, n)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(meta.ID)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := storage.WriteSeriesCSV(w, series); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
