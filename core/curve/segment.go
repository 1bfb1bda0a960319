package curve

import (
	"fmt"
	"math"
)

// Kind classifies segments by their geometric type.
type Kind uint8

const (
	KindLine  Kind = iota // straight line
	KindQuad              // quadratic Bézier curve, one control point
	KindCubic             // cubic Bézier curve, two control points
	KindArc               // elliptical arc in SVG endpoint notation
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "Line"
	case KindQuad:
		return "Quad"
	case KindCubic:
		return "Cubic"
	case KindArc:
		return "Arc"
	}
	return "Unknown"
}

// ArcShape holds the shape parameters of an elliptical arc, as found in SVG
// path data, and the center notation derived from them.
type ArcShape struct {
	Radii    Point   // rx, ry
	Rotation float64 // x-axis rotation in radians
	LargeArc bool
	Sweep    bool
	// center notation, set by Precompute
	ready      bool
	linear     bool // zero radius: the arc degenerates to a line
	center     Point
	rx, ry     float64 // radii, corrected to reach the end point
	theta      float64 // start angle
	deltaTheta float64 // angle to sweep
}

// Segment is a piece of an outline. Control points C1 and C2 are used by
// Bézier curves only, Arc by arcs only.
type Segment struct {
	Kind  Kind
	Start Point
	C1    Point
	C2    Point
	End   Point
	Arc   ArcShape
}

func (s Segment) String() string {
	switch s.Kind {
	case KindQuad:
		return fmt.Sprintf("Quad[%v %v %v]", s.Start, s.C1, s.End)
	case KindCubic:
		return fmt.Sprintf("Cubic[%v %v %v %v]", s.Start, s.C1, s.C2, s.End)
	case KindArc:
		return fmt.Sprintf("Arc[%v → %v r=%v]", s.Start, s.End, s.Arc.Radii)
	}
	return fmt.Sprintf("Line[%v %v]", s.Start, s.End)
}

// Line creates a straight line segment.
func Line(p0, p1 Point) Segment {
	return Segment{Kind: KindLine, Start: p0, End: p1}
}

// Quad creates a quadratic Bézier segment.
func Quad(p0, c, p1 Point) Segment {
	return Segment{Kind: KindQuad, Start: p0, C1: c, End: p1}
}

// Cubic creates a cubic Bézier segment.
func Cubic(p0, c1, c2, p1 Point) Segment {
	return Segment{Kind: KindCubic, Start: p0, C1: c1, C2: c2, End: p1}
}

// Arc creates an elliptical arc from p0 to p1, in SVG endpoint notation.
// rotation is given in degrees, as in SVG.
func Arc(p0 Point, radii Point, rotation float64, largeArc, sweep bool, p1 Point) Segment {
	return Segment{
		Kind:  KindArc,
		Start: p0,
		End:   p1,
		Arc: ArcShape{
			Radii:    radii,
			Rotation: rotation * math.Pi / 180,
			LargeArc: largeArc,
			Sweep:    sweep,
		},
	}
}

// Precompute converts an arc from endpoint notation to center notation.
// It has to be called before an arc may be interpolated, and is a no-op for
// other kinds of segments.
//
// The conversion follows the SVG implementation notes, section F.6.5. Radii
// too small to span the end points are scaled up (F.6.6). A zero radius makes
// the arc a line, coinciding end points make it a point.
func (s *Segment) Precompute() {
	if s.Kind != KindArc || s.Arc.ready {
		return
	}
	a := &s.Arc
	a.ready = true
	a.rx, a.ry = math.Abs(a.Radii.X), math.Abs(a.Radii.Y)
	if s.Start == s.End {
		a.center, a.rx, a.ry, a.theta, a.deltaTheta = s.Start, 0, 0, 0, 0
		return
	}
	if a.rx == 0 || a.ry == 0 {
		a.linear = true
		return
	}
	sin, cos := math.Sincos(a.Rotation)
	dx2, dy2 := (s.Start.X-s.End.X)/2, (s.Start.Y-s.End.Y)/2
	x1 := cos*dx2 + sin*dy2 // step 1: transformed start point x1', y1'
	y1 := -sin*dx2 + cos*dy2
	if lambda := x1*x1/(a.rx*a.rx) + y1*y1/(a.ry*a.ry); lambda > 1 {
		a.rx *= math.Sqrt(lambda)
		a.ry *= math.Sqrt(lambda)
	}
	rx2, ry2 := a.rx*a.rx, a.ry*a.ry
	num := rx2*ry2 - rx2*y1*y1 - ry2*x1*x1
	den := rx2*y1*y1 + ry2*x1*x1
	radicand := num / den
	if radicand < 0 { // half-arc, center is the midpoint of the end points
		radicand = 0
	}
	coef := math.Sqrt(radicand)
	if a.LargeArc == a.Sweep {
		coef = -coef
	}
	cx := coef * a.rx * y1 / a.ry // step 2: transformed center cx', cy'
	cy := -coef * a.ry * x1 / a.rx
	a.center = Point{ // step 3
		X: cos*cx - sin*cy + (s.Start.X+s.End.X)/2,
		Y: sin*cx + cos*cy + (s.Start.Y+s.End.Y)/2,
	}
	u := Point{(x1 - cx) / a.rx, (y1 - cy) / a.ry} // step 4
	v := Point{(-x1 - cx) / a.rx, (-y1 - cy) / a.ry}
	a.theta = angle(Point{1, 0}, u)
	a.deltaTheta = math.Mod(angle(u, v), 2*math.Pi)
	if !a.Sweep && a.deltaTheta > 0 {
		a.deltaTheta -= 2 * math.Pi
	} else if a.Sweep && a.deltaTheta < 0 {
		a.deltaTheta += 2 * math.Pi
	}
	tracer().Debugf("arc center %v, θ=%.3f, Δθ=%.3f", a.center, a.theta, a.deltaTheta)
}

// angle between vectors u and v, signed
func angle(u, v Point) float64 {
	return math.Atan2(u.X*v.Y-u.Y*v.X, u.Dot(v))
}

// Interpolate returns the point at parameter t ∈ [0, 1] of the segment.
// Arcs not yet precomputed are precomputed on a copy.
func (s Segment) Interpolate(t float64) Point {
	switch s.Kind {
	case KindQuad:
		mt := 1 - t
		return s.Start.Mul(mt * mt).Add(s.C1.Mul(2 * mt * t)).Add(s.End.Mul(t * t))
	case KindCubic:
		mt := 1 - t
		return s.Start.Mul(mt * mt * mt).
			Add(s.C1.Mul(3 * mt * mt * t)).
			Add(s.C2.Mul(3 * mt * t * t)).
			Add(s.End.Mul(t * t * t))
	case KindArc:
		if !s.Arc.ready {
			s.Precompute()
		}
		a := &s.Arc
		if a.linear {
			return s.Start.Lerp(s.End, t)
		}
		sin, cos := math.Sincos(a.Rotation)
		st, ct := math.Sincos(a.theta + t*a.deltaTheta)
		return Point{
			X: cos*a.rx*ct - sin*a.ry*st + a.center.X,
			Y: sin*a.rx*ct + cos*a.ry*st + a.center.Y,
		}
	}
	return s.Start.Lerp(s.End, t)
}

// Curvature returns an estimate of how much a segment deviates from the
// straight line between its end points: the length of the control polygon
// (or of the arc) divided by the length of the chord, minus 1.
// It is 0 for lines. Closed curves report the length of the control
// polygon; a curve counts as closed if its chord is shorter than a millionth
// of that length.
func (s Segment) Curvature() float64 {
	var length float64
	switch s.Kind {
	case KindLine:
		return 0
	case KindQuad:
		length = s.C1.Sub(s.Start).Len() + s.End.Sub(s.C1).Len()
	case KindCubic:
		length = s.C1.Sub(s.Start).Len() + s.C2.Sub(s.C1).Len() + s.End.Sub(s.C2).Len()
	case KindArc:
		if !s.Arc.ready {
			s.Precompute()
		}
		if s.Arc.linear {
			return 0
		}
		length = math.Abs(s.Arc.deltaTheta) * (s.Arc.rx + s.Arc.ry) / 2
	}
	chord := s.End.Sub(s.Start).Len()
	if chord < 1e-9 || chord < length*1e-6 {
		return length
	}
	return math.Max(0, length/chord-1)
}

// Bounds returns a box enclosing all points and control points of the
// segments. For arcs, the box of the subsampled arc is used.
func Bounds(segments []Segment) Rect {
	r := EmptyRect()
	for _, s := range segments {
		r = r.Extend(s.Start).Extend(s.End)
		switch s.Kind {
		case KindQuad:
			r = r.Extend(s.C1)
		case KindCubic:
			r = r.Extend(s.C1).Extend(s.C2)
		case KindArc:
			for i := 1; i < 16; i++ {
				r = r.Extend(s.Interpolate(float64(i) / 16))
			}
		}
	}
	return r
}
