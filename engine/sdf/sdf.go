/*
Package sdf computes signed distances between points and closed outlines.

Outlines are flattened into polygons, i.e. sequences of straight lines.
A polygon may consist of more than one closed contour, as is the case for
glyphs like 'O' or 'B'. The distance of a point to a polygon is the distance
to its nearest line. Its sign tells if the point lies inside of the polygon
(negative) or outside (positive). Inside-ness is decided for all contours
together, by counting the crossings of a horizontal ray with the polygon's
lines. Testing contours one by one would get holes wrong.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package sdf

import (
	"math"

	"github.com/npillmayer/glyphatlas/core/curve"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.sdf'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.sdf")
}

// FillRule decides from a winding number if a point is inside.
type FillRule int8

const (
	NonZero FillRule = iota // inside if the winding number is not 0
	EvenOdd                 // inside if the winding number is odd
)

func (r FillRule) inside(winding int) bool {
	if r == EvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// MinimumDistance returns the distance of p to the line from a to b.
// The projection of p onto the line is clamped to the end points.
func MinimumDistance(a, b, p curve.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Sub(a.Add(ab.Mul(t))).Len()
}

// ScanlineTest checks if a horizontal ray, starting at p and running in
// positive x direction, crosses the line from a to b. It returns +1 for a
// line running upward, −1 for a line running downward and 0 if the ray
// misses the line.
//
// End points are treated half-open: a line covers the y-range [min, max),
// so a ray through a vertex shared by two lines counts once.
func ScanlineTest(a, b, p curve.Point) int {
	if (a.Y <= p.Y) == (b.Y <= p.Y) {
		return 0 // both ends above or both below, or horizontal
	}
	x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
	if x <= p.X {
		return 0
	}
	if b.Y > a.Y {
		return 1
	}
	return -1
}

// Polygon is a closed outline made from straight lines. Curves have to be
// flattened beforehand, see Flatten.
type Polygon []curve.Segment

// Flatten subsamples outline segments into a polygon, with density as the
// baseline subsampling density (see curve.Subsample).
func Flatten(outline []curve.Segment, density float64) Polygon {
	return Polygon(curve.Flatten(outline, density))
}

// Winding returns the winding number of polygon around p.
func (poly Polygon) Winding(p curve.Point) int {
	w := 0
	for _, l := range poly {
		w += ScanlineTest(l.Start, l.End, p)
	}
	return w
}

// SignedDistance returns the distance from p to the nearest line of the
// polygon, negative if p is inside, using the non-zero winding rule.
// Points on the polygon's border have a distance of 0.
// The distance to an empty polygon is +Inf.
func (poly Polygon) SignedDistance(p curve.Point) float64 {
	return poly.SignedDistanceRule(p, NonZero)
}

// SignedDistanceRule is like SignedDistance, with a selectable fill rule.
func (poly Polygon) SignedDistanceRule(p curve.Point, rule FillRule) float64 {
	d := math.Inf(1)
	winding := 0
	for _, l := range poly {
		if dist := MinimumDistance(l.Start, l.End, p); dist < d {
			d = dist
		}
		winding += ScanlineTest(l.Start, l.End, p)
	}
	if rule.inside(winding) {
		return -d
	}
	return d
}

// SignedDistance is a shortcut for Polygon(polygon).SignedDistance(p).
func SignedDistance(polygon []curve.Segment, p curve.Point) float64 {
	return Polygon(polygon).SignedDistance(p)
}

// Bounds returns the bounding box of the polygon.
func (poly Polygon) Bounds() curve.Rect {
	return curve.Bounds(poly)
}
