package otglyph

import (
	"github.com/npillmayer/glyphatlas/core/curve"
)

// Segments converts the contours of an outline to lines and quadratic Bézier
// curves, in font units.
//
// Between two consecutive off-curve points an on-curve point is implied at
// their midpoint. A sequence on → off → on results in a quadratic curve,
// two on-curve points in a line. Every contour is closed.
func (o *Outline) Segments() []curve.Segment {
	var segs []curve.Segment
	for _, contour := range o.Contours() {
		segs = appendContour(segs, contour)
	}
	return segs
}

func pt(p Point) curve.Point {
	return curve.Pt(p.X, p.Y)
}

func mid(p, q curve.Point) curve.Point {
	return p.Lerp(q, 0.5)
}

func appendContour(segs []curve.Segment, contour []Point) []curve.Segment {
	n := len(contour)
	if n < 2 {
		return segs
	}
	var start curve.Point
	var rest []Point // points to visit after start, ending with an on-curve point at start
	first, last := contour[0], contour[n-1]
	switch {
	case first.OnCurve:
		start = pt(first)
		rest = append(append(rest, contour[1:]...), first)
	case last.OnCurve:
		start = pt(last)
		rest = contour
	default:
		start = mid(pt(last), pt(first))
		rest = append(append(rest, contour...), Point{X: start.X, Y: start.Y, OnCurve: true})
	}
	cur := start
	var ctrl curve.Point
	haveCtrl := false
	for _, p := range rest {
		q := pt(p)
		switch {
		case p.OnCurve && haveCtrl:
			segs = append(segs, curve.Quad(cur, ctrl, q))
			cur, haveCtrl = q, false
		case p.OnCurve:
			if q != cur {
				segs = append(segs, curve.Line(cur, q))
			}
			cur = q
		case haveCtrl:
			m := mid(ctrl, q)
			segs = append(segs, curve.Quad(cur, ctrl, m))
			cur, ctrl = m, q
		default:
			ctrl, haveCtrl = q, true
		}
	}
	return segs
}
