// Package export writes flock state and recorded runs to files.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/geom"
	"github.com/san-kum/flocksim/internal/render"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// GridToSVG draws every lit pixel of g as a dot. scale is the size of one
// pixel in SVG units.
func GridToSVG(g render.Grid, scale float64) string {
	if g == nil {
		return ""
	}
	w, h := g.Size()
	width, height := float64(w)*scale, float64(h)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	r := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !g.Lit(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// FlockToSVG draws each agent as its outlined triangle and, when the flock
// has targets, each target as a small dot.
func FlockToSVG(f *flock.Flock, scale float64) string {
	if f == nil {
		return ""
	}
	width, height := f.Width()*scale, f.Height()*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)

	if n := f.Targets().Len(); n > 0 {
		sb.WriteString("<g fill=\"#444444\">\n")
		for i := 0; i < n; i++ {
			p := f.Targets().At(i).Vec().Scale(scale)
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", p.X, p.Y, scale*0.5)
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("<g fill=\"none\" stroke=\"#00ff00\" stroke-width=\"0.5\">\n")
	for _, a := range f.Agents() {
		t := render.Triangle(a.Pos, a.Vel, render.BoidSize)
		sb.WriteString("<polygon points=\"")
		for i, p := range t {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.2f,%.2f", p.X*scale, p.Y*scale)
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws points as one polyline fitted to width x height
// with 10% padding. y grows downward, as in the world.
func TrajectoryToSVG(points []geom.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, float64(width), float64(height), float64(width), float64(height))
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"M", strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := (p.Y - minY) / rangeY * float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}
