package curve

import (
	"fmt"
	"math"
)

// Point is a point in 2D space. It is used as a vector as well.
type Point struct {
	X, Y float64
}

// Pt is a shortcut for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.3g,%.3g)", p.X, p.Y)
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul scales p by s.
func (p Point) Mul(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Len returns the euclidian length of vector p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Lerp interpolates linearly between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Near is true if p and q are within distance eps.
func (p Point) Near(q Point, eps float64) bool {
	return p.Sub(q).Len() <= eps
}

// Rect is an axis-aligned rectangle. Min is the lower left corner (in a
// y-up coordinate system).
type Rect struct {
	Min, Max Point
}

// EmptyRect returns a rectangle which will be replaced by the first point
// it is extended with.
func EmptyRect() Rect {
	inf := math.Inf(1)
	return Rect{Min: Point{inf, inf}, Max: Point{-inf, -inf}}
}

// Empty is true if r has no extent or is inverted.
func (r Rect) Empty() bool {
	return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y
}

// Dx returns the width of r.
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy returns the height of r.
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Extend returns the smallest rectangle containing r and p.
func (r Rect) Extend(p Point) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)},
		Max: Point{math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)},
	}
}

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	if s.Empty() {
		return r
	}
	return r.Extend(s.Min).Extend(s.Max)
}

// Inset returns r grown by d on every side (shrunk for negative d).
func (r Rect) Inset(d float64) Rect {
	return Rect{Min: Point{r.Min.X - d, r.Min.Y - d}, Max: Point{r.Max.X + d, r.Max.Y + d}}
}

// Scale returns r with all coordinates multiplied by s.
func (r Rect) Scale(s float64) Rect {
	return Rect{Min: r.Min.Mul(s), Max: r.Max.Mul(s)}
}

// Contains is true if p lies within r, including its border.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}
