package render

import (
	"math"

	"github.com/san-kum/flocksim/internal/geom"
)

// BoidSize is the half-extent of the drawn triangle in world units.
const BoidSize = 2.0

// Triangle returns the three corners of a boid drawn at pos and pointing
// along vel. The local shape is (0,-s), (s,s), (-s,s), rotated by the
// heading plus a quarter turn so the tip leads.
func Triangle(pos, vel geom.Vec2, s float64) [3]geom.Vec2 {
	angle := math.Atan2(vel.Y, vel.X) + math.Pi/2
	return [3]geom.Vec2{
		geom.V(0, -s).Rotate(angle).Add(pos),
		geom.V(s, s).Rotate(angle).Add(pos),
		geom.V(-s, s).Rotate(angle).Add(pos),
	}
}

// Rasterizer draws every agent it receives onto a surface. It satisfies
// flock.Sink. Scale maps world units to surface pixels.
type Rasterizer struct {
	Lines   LineDrawer
	Surface Surface
	Size    float64
	Scale   float64

	buf []Pixel
}

func NewRasterizer(s Surface) *Rasterizer {
	return &Rasterizer{Lines: Bresenham{}, Surface: s, Size: BoidSize, Scale: 1}
}

func (r *Rasterizer) Agent(_ int, pos, vel geom.Vec2) {
	t := Triangle(pos, vel, r.Size)
	r.DrawTriangle(t[0], t[1], t[2])
}

// DrawTriangle strokes the three edges p1-p2, p2-p3, p3-p1.
func (r *Rasterizer) DrawTriangle(p1, p2, p3 geom.Vec2) {
	r.segment(p1, p2)
	r.segment(p2, p3)
	r.segment(p3, p1)
}

// Mark lights the single pixel under a world point.
func (r *Rasterizer) Mark(p geom.Vec2) {
	x, y, ok := r.pixel(p)
	if ok {
		r.Surface.Set(x, y)
	}
}

func (r *Rasterizer) segment(a, b geom.Vec2) {
	x0, y0, ok0 := r.pixel(a)
	x1, y1, ok1 := r.pixel(b)
	if !ok0 || !ok1 {
		return
	}
	r.buf = r.Lines.Line(r.buf[:0], x0, y0, x1, y1)
	for _, p := range r.buf {
		r.Surface.Set(p.X, p.Y)
	}
}

// pixel floors a world point onto the surface grid. Non-finite and far
// off-surface points are rejected.
func (r *Rasterizer) pixel(p geom.Vec2) (int, int, bool) {
	scale := r.Scale
	if scale == 0 {
		scale = 1
	}
	x, y := math.Floor(p.X*scale), math.Floor(p.Y*scale)
	if math.IsNaN(x) || math.IsNaN(y) || math.Abs(x) > 1<<20 || math.Abs(y) > 1<<20 {
		return 0, 0, false
	}
	return int(x), int(y), true
}
