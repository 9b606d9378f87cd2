// Package constellation loads the letterform target layouts used by the
// attractor. A layout is a text bitmap: '#' marks a lit cell, any other rune
// is blank, and lines starting with ';' are comments.
package constellation

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"strings"

	"github.com/san-kum/flocksim/internal/flock"
)

//go:embed boids.txt
var defaultLayout []byte

var ErrEmpty = errors.New("constellation: bitmap has no lit cells")

type Bitmap struct {
	Cols  int
	Rows  int
	Cells []image.Point
}

func Parse(r io.Reader) (*Bitmap, error) {
	b := &Bitmap{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, ";") {
			continue
		}
		row := b.Rows
		col := 0
		for _, ch := range line {
			if ch == '#' {
				b.Cells = append(b.Cells, image.Pt(col, row))
			}
			col++
		}
		b.Cols = max(b.Cols, col)
		b.Rows++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("constellation: %w", err)
	}
	if len(b.Cells) == 0 {
		return nil, ErrEmpty
	}
	return b, nil
}

// Load reads a bitmap file from disk.
func Load(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Default returns the built-in layout.
func Default() *Bitmap {
	b, err := Parse(bytes.NewReader(defaultLayout))
	if err != nil {
		panic(err)
	}
	return b
}

// Layout controls how a bitmap is placed in the world.
type Layout struct {
	// Fill is the fraction of the world the bitmap may span on its
	// tighter axis.
	Fill float64
	// Density lights Density x Density targets per cell.
	Density int
}

func DefaultLayout() Layout {
	return Layout{Fill: 0.8, Density: 2}
}

// Fit scales the bitmap into a width x height world, centers it, and returns
// at most limit targets in row-major order.
func (b *Bitmap) Fit(width, height float64, lay Layout, limit int) []flock.Target {
	if lay.Density < 1 {
		lay.Density = 1
	}
	if lay.Fill <= 0 || lay.Fill > 1 {
		lay.Fill = 1
	}
	cell := math.Min(width*lay.Fill/float64(b.Cols), height*lay.Fill/float64(b.Rows))
	ox := (width - cell*float64(b.Cols)) / 2
	oy := (height - cell*float64(b.Rows)) / 2
	sub := cell / float64(lay.Density)

	out := make([]flock.Target, 0, min(limit, len(b.Cells)*lay.Density*lay.Density))
	for _, c := range b.Cells {
		for dy := 0; dy < lay.Density; dy++ {
			for dx := 0; dx < lay.Density; dx++ {
				if len(out) >= limit {
					return out
				}
				x := ox + float64(c.X)*cell + (float64(dx)+0.5)*sub
				y := oy + float64(c.Y)*cell + (float64(dy)+0.5)*sub
				out = append(out, flock.Target{X: int32(math.Floor(x)), Y: int32(math.Floor(y))})
			}
		}
	}
	return out
}
