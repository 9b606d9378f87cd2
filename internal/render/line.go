// Package render turns agent states into lit pixels: a line rasterizer, the
// boid triangle, and the frame buffers that display it.
package render

// Pixel is an integer surface coordinate.
type Pixel struct {
	X, Y int
}

// LineDrawer maps a segment to the pixels it covers, both endpoints
// included. Implementations append to dst and return the extended slice.
type LineDrawer interface {
	Line(dst []Pixel, x0, y0, x1, y1 int) []Pixel
}

// Bresenham is the integer error-accumulation line algorithm.
type Bresenham struct{}

func (Bresenham) Line(dst []Pixel, x0, y0, x1, y1 int) []Pixel {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		dst = append(dst, Pixel{x0, y0})
		if x0 == x1 && y0 == y1 {
			return dst
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
