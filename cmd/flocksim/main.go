package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	agents     int
	mode       string
	workers    int
	attract    bool
	width      float64
	height     float64

	logLevel  string
	logFormat string
	logFile   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "flocksim",
		Short:         "boids flocking lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".flocksim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.IntVar(&agents, "agents", 0, "number of agents")
	pf.StringVar(&mode, "mode", "", "update mode: snapshot or inplace")
	pf.IntVar(&workers, "workers", 0, "parallel workers in snapshot mode")
	pf.BoolVar(&attract, "attract", false, "start with attractor mode on")
	pf.Float64Var(&width, "width", 0, "world width (0 fits the display)")
	pf.Float64Var(&height, "height", 0, "world height (0 fits the display)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "text", "log format: text or json")
	pf.StringVar(&logFile, "log-file", "", "write logs to a file instead of stderr")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the flock in the terminal",
		RunE:  runLive,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().String("theme", "night", "color theme")
		c.Flags().String("gif", "flock.gif", "path for GIF recordings")
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the flock in a window",
		RunE:  runGUI,
	}
	guiCmd.Flags().Float64("scale", 1, "screen pixels per world unit")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and record metrics",
		RunE:  runHeadless,
	}
	runCmd.Flags().Int("frames", 600, "frames to simulate")
	runCmd.Flags().Int("runs", 1, "runs with consecutive seeds")
	runCmd.Flags().Bool("pace", false, "pace frames at 60 per second")
	runCmd.Flags().Bool("no-save", false, "do not store the run")
	runCmd.Flags().String("scenario", "", "yaml scenario of timed commands")

	frameCmd := &cobra.Command{
		Use:   "frame",
		Short: "simulate and print one text frame",
		RunE:  printFrame,
	}
	frameCmd.Flags().Int("frames", 120, "frames to simulate first")
	frameCmd.Flags().Bool("braille", false, "render with braille cells")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().String("metric", "", "plot only this metric")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot one metric against another",
		Args:  cobra.MaximumNArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().String("x", "polarization", "metric on the x axis")
	phaseCmd.Flags().String("y", "mean_neighbors", "metric on the y axis")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summarize metrics and find the dominant oscillation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().String("metric", "polarization", "metric to analyze")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param] [lo] [hi] [steps]",
		Short: "sweep a parameter and report flock order",
		Args:  cobra.ExactArgs(4),
		RunE:  sweepParam,
	}
	sweepCmd.Flags().Int("frames", 300, "frames recorded per value")

	divergeCmd := &cobra.Command{
		Use:   "diverge",
		Short: "estimate how fast nearby flocks drift apart",
		RunE:  divergeRun,
	}
	divergeCmd.Flags().Int("frames", 600, "frames to simulate")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run metrics to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "simulate and write the flock as SVG",
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Int("frames", 120, "frames to simulate first")
	exportSVGCmd.Flags().StringP("output", "o", "flock.svg", "output file")
	exportSVGCmd.Flags().Bool("braille", false, "draw the rasterized braille grid instead of outlines")
	exportSVGCmd.Flags().Float64("scale", 1, "svg units per world unit")

	exportStateCmd := &cobra.Command{
		Use:   "export-state",
		Short: "simulate and dump every agent as JSON or YAML",
		RunE:  exportState,
	}
	exportStateCmd.Flags().Int("frames", 120, "frames to simulate first")
	exportStateCmd.Flags().StringP("output", "o", "flock.json", "output file (.json, .yaml)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect configuration",
	}
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "print the effective configuration",
		RunE:  dumpConfig,
	}
	dumpCmd.Flags().Bool("toml", false, "print TOML instead of YAML")
	configCmd.AddCommand(dumpCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the best metric average",
		RunE:  tuneParams,
	}
	tuneCmd.Flags().StringArray("param", nil, "parameter and values, e.g. alignment=0,2,4 (repeatable)")
	tuneCmd.Flags().String("metric", "polarization", "metric to optimize")
	tuneCmd.Flags().Int("frames", 300, "frames per combination")
	tuneCmd.Flags().Bool("minimize", false, "minimize the metric instead of maximizing it")
	tuneCmd.MarkFlagRequired("param")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the step in each update mode",
		RunE:  benchStep,
	}
	benchCmd.Flags().Int("frames", 300, "frames per measurement")

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, frameCmd, listCmd, plotCmd, phaseCmd, analyzeCmd,
		sweepCmd, divergeCmd, exportCmd, exportCSVCmd, exportSVGCmd, exportStateCmd, presetsCmd, configCmd, tuneCmd, benchCmd)
	return rootCmd
}
