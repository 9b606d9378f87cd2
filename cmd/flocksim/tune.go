package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/flocksim/internal/optim"
)

// parseParamSpec splits "name=v1,v2,..." into a name and its values.
func parseParamSpec(spec string) (string, []float64, error) {
	name, list, ok := strings.Cut(spec, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("invalid param %q (want name=v1,v2,...)", spec)
	}
	var vals []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid value in %q: %w", spec, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}

func tuneParams(cmd *cobra.Command, args []string) error {
	cfg, label, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	specs, _ := cmd.Flags().GetStringArray("param")
	metric, _ := cmd.Flags().GetString("metric")
	frames, _ := cmd.Flags().GetInt("frames")
	minimize, _ := cmd.Flags().GetBool("minimize")

	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	total := 1
	for _, spec := range specs {
		name, vals, err := parseParamSpec(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
		total *= len(vals)
	}

	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	fc, err := cfg.FlockConfig(headlessWidth, headlessHeight)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	goal := "maximizing"
	if minimize {
		goal = "minimizing"
	}
	fmt.Printf("tuning %s: %s %s over %d combinations, %d frames each\n", label, goal, metric, total, frames)
	start := time.Now()
	best, val, err := gs.Search(ctx, fc, optim.Objective{
		Metric:   metric,
		Frames:   frames,
		Seed:     cfg.Seed,
		Maximize: !minimize,
	})
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v", time.Since(start).Round(time.Millisecond))
	if gs.Skipped > 0 {
		fmt.Printf(" (%d invalid combinations skipped)", gs.Skipped)
	}
	fmt.Printf("\n\nbest %s: %.6f\n", metric, val)
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}
