// Package viz is the live terminal front-end built on Bubble Tea.
//
// The flock is drawn on a Braille grid with two world pixels per column
// and four per row, so a terminal of c columns and r canvas rows holds a
// 2c by 4r world. A HUD below the canvas shows run state and a sparkline
// of flock polarization.
//
// # Key Bindings
//
//	p      - Pause/Resume
//	Space  - Scatter velocities
//	a      - Toggle attractor mode
//	e      - Toggle edit mode (click to place targets)
//	c      - Clear targets
//	d      - Restore the default constellation
//	g      - Toggle GIF recording
//	t      - Cycle themes
//	?      - Show help
//	q      - Quit
package viz
