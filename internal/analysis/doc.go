// Package analysis post-processes flock runs.
//
//   - [DominantPeak]: strongest oscillation in a metric series via [FFT]
//   - [Summarize]: mean, spread and range of a series
//   - [Divergence]: sensitivity of the emergent pattern to a nudged agent
//   - [Sweep]: steady-state order across a parameter range
//   - [PhasePlot]: one metric against another as a character plot
//
// # Order transition
//
// Polarization near 1 means the flock moves as one body:
//
//	pts, _ := analysis.Sweep(cfg, seed, "alignment", 0, 10, 11, 300, 120)
//	for _, p := range pts {
//	    fmt.Printf("%5.1f %.3f\n", p.Param, p.Polarization)
//	}
package analysis
