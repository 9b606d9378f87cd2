// Package geom provides the 2D vector type shared by the flock core and the
// renderers.
package geom

import (
	"fmt"
	"math"
)

// Epsilon is the magnitude below which a vector is treated as zero.
const Epsilon = 1e-9

// Vec2 is a point or direction in world units. It is a plain value type so
// slices of Vec2 stay contiguous in memory.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// LenSqr avoids the square root; use it for comparisons.
func (v Vec2) LenSqr() float64 { return v.X*v.X + v.Y*v.Y }

// Len is a plain square root, not math.Hypot. Neighbor distances must not
// change with the implementation.
func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Dist is the Euclidean distance between two points.
func (v Vec2) Dist(o Vec2) float64 { return o.Sub(v).Len() }

// Normalize returns the unit vector, or the zero vector when v is shorter
// than Epsilon.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < Epsilon {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// WithLen rescales v to length l. Zero-length vectors stay zero.
func (v Vec2) WithLen(l float64) Vec2 {
	n := v.Len()
	if n < Epsilon {
		return Vec2{}
	}
	return Vec2{v.X / n * l, v.Y / n * l}
}

// Angle is the heading of v relative to the X axis, in [-Pi, Pi].
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Rotate rotates v by angle radians around the origin.
func (v Vec2) Rotate(angle float64) Vec2 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Vec2{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
	}
}

// IsFinite reports whether neither component is NaN or Inf.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Eq compares with Epsilon tolerance.
func (v Vec2) Eq(o Vec2) bool {
	return math.Abs(v.X-o.X) <= Epsilon && math.Abs(v.Y-o.Y) <= Epsilon
}
