package render

import "strings"

// Surface is a pixel sink.
type Surface interface {
	Set(x, y int)
}

// Grid is a readable surface. Size is in pixels.
type Grid interface {
	Size() (w, h int)
	Lit(x, y int) bool
}

// Frame is a one-character-per-pixel display buffer. Out-of-range pixels
// are dropped.
type Frame struct {
	w, h  int
	cells []bool
}

func NewFrame(w, h int) *Frame {
	return &Frame{w: w, h: h, cells: make([]bool, w*h)}
}

func (f *Frame) Size() (int, int) { return f.w, f.h }

func (f *Frame) Set(x, y int) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	f.cells[y*f.w+x] = true
}

func (f *Frame) Lit(x, y int) bool {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return false
	}
	return f.cells[y*f.w+x]
}

func (f *Frame) Clear() { clear(f.cells) }

// Count returns how many pixels are lit.
func (f *Frame) Count() int {
	n := 0
	for _, c := range f.cells {
		if c {
			n++
		}
	}
	return n
}

// String renders lit pixels as '@' and the rest as spaces, one line per row,
// then clears the buffer for the next frame.
func (f *Frame) String() string {
	var b strings.Builder
	b.Grow((f.w + 1) * f.h)
	for y := 0; y < f.h; y++ {
		row := f.cells[y*f.w : (y+1)*f.w]
		for _, c := range row {
			if c {
				b.WriteByte('@')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	f.Clear()
	return b.String()
}
