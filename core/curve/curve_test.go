package curve

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestLineCurvature(t *testing.T) {
	l := Line(Pt(0, 0), Pt(10, 5))
	assert.Equal(t, 0.0, l.Curvature())
	assert.Equal(t, Pt(5, 2.5), l.Interpolate(0.5))
	out := Subsample(l, 100, nil)
	assert.Equal(t, []Segment{l}, out)
}

func TestBezierCurvature(t *testing.T) {
	flat := Quad(Pt(0, 0), Pt(5, 0), Pt(10, 0))
	assert.InDelta(t, 0.0, flat.Curvature(), eps)
	sharp := Quad(Pt(0, 0), Pt(5, 10), Pt(10, 0))
	assert.InDelta(t, 2*math.Hypot(5, 10)/10-1, sharp.Curvature(), eps)
	assert.Greater(t, sharp.Curvature(), Quad(Pt(0, 0), Pt(5, 2), Pt(10, 0)).Curvature())
	c := Cubic(Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0))
	assert.InDelta(t, 3.0-1, c.Curvature(), eps)
	assert.Equal(t, Pt(5, 7.5), c.Interpolate(0.5))
	assert.Equal(t, Pt(5, 5), sharp.Interpolate(0.5))
}

func TestSubsampleSteps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.geom")
	defer teardown()
	//
	q := Quad(Pt(0, 0), Pt(5, 10), Pt(10, 0))
	for _, density := range []float64{0, 1, 4, 16} {
		lines := Subsample(q, density, nil)
		want := int(math.Ceil(1 + q.Curvature()*density))
		assert.Len(t, lines, want, "density %g", density)
		assert.Equal(t, q.Start, lines[0].Start)
		assert.Equal(t, q.End, lines[len(lines)-1].End)
		for i := 1; i < len(lines); i++ {
			assert.Equal(t, lines[i-1].End, lines[i].Start)
			assert.Equal(t, KindLine, lines[i].Kind)
		}
	}
}

func TestNearlyClosedCurve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.geom")
	defer teardown()
	//
	q := Quad(Pt(0, 0), Pt(100, 0), Pt(0.000001, 0))
	assert.InDelta(t, 200.0, q.Curvature(), 1e-3)
	lines := Subsample(q, 1, nil)
	assert.Len(t, lines, 201)
	assert.Equal(t, q.End, lines[len(lines)-1].End)
	//
	lines = Subsample(q, 1e9, nil)
	assert.Len(t, lines, MaxSteps)
	lines = Subsample(q, math.Inf(1), nil)
	assert.Len(t, lines, MaxSteps)
}

func TestArcEndpoints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.geom")
	defer teardown()
	//
	type arc struct {
		p0, radii Point
		rotation  float64
		largeArc  bool
		p1        Point
	}
	arcs := []arc{
		{Pt(0, 0), Pt(5, 5), 0, false, Pt(10, 0)},
		{Pt(0, 0), Pt(20, 8), 30, true, Pt(10, 10)},
		{Pt(3, 4), Pt(1, 1), 45, false, Pt(-7, 2)}, // radii too small
		{Pt(0, 0), Pt(10, 5), 0, false, Pt(10, 0)},
		{Pt(-2, 1), Pt(3, 7), 200, true, Pt(4, -3)},
	}
	for _, a := range arcs {
		for _, sweep := range []bool{false, true} {
			s := Arc(a.p0, a.radii, a.rotation, a.largeArc, sweep, a.p1)
			s.Precompute()
			assert.True(t, s.Interpolate(0).Near(a.p0, 1e-6), "start of %v (sweep=%v): %v", s, sweep, s.Interpolate(0))
			assert.True(t, s.Interpolate(1).Near(a.p1, 1e-6), "end of %v (sweep=%v): %v", s, sweep, s.Interpolate(1))
		}
	}
}

func TestArcSweepDirection(t *testing.T) {
	up := Arc(Pt(0, 0), Pt(5, 5), 0, false, false, Pt(10, 0))
	down := Arc(Pt(0, 0), Pt(5, 5), 0, false, true, Pt(10, 0))
	assert.True(t, up.Interpolate(0.5).Near(Pt(5, 5), 1e-9))
	assert.True(t, down.Interpolate(0.5).Near(Pt(5, -5), 1e-9))
	assert.InDelta(t, math.Pi*5/10-1, down.Curvature(), 1e-9)
}

func TestDegenerateArcs(t *testing.T) {
	point := Arc(Pt(3, 3), Pt(5, 5), 0, false, true, Pt(3, 3))
	point.Precompute()
	assert.True(t, point.Interpolate(0.7).Near(Pt(3, 3), eps))
	assert.Len(t, Subsample(point, 8, nil), 1)
	line := Arc(Pt(0, 0), Pt(0, 5), 0, false, true, Pt(10, 0))
	assert.Equal(t, 0.0, line.Curvature())
	assert.True(t, line.Interpolate(0.5).Near(Pt(5, 0), eps))
}

func TestArcSubsample(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.geom")
	defer teardown()
	//
	circle := []Segment{
		Arc(Pt(0, 0), Pt(5, 5), 0, false, true, Pt(10, 0)),
		Arc(Pt(10, 0), Pt(5, 5), 0, false, true, Pt(0, 0)),
	}
	lines := Flatten(circle, 8)
	assert.Greater(t, len(lines), 10)
	center := Pt(5, 0)
	for _, l := range lines {
		assert.InDelta(t, 5.0, l.Start.Sub(center).Len(), 1e-9)
	}
	assert.Equal(t, lines[0].Start, lines[len(lines)-1].End)
	box := Bounds(circle)
	assert.InDelta(t, 0.0, box.Min.X, 1e-9)
	assert.InDelta(t, 10.0, box.Max.X, 1e-9)
	assert.InDelta(t, 5.0, box.Max.Y, 0.2)
}

func TestRect(t *testing.T) {
	r := EmptyRect()
	assert.True(t, r.Empty())
	r = r.Extend(Pt(1, 2)).Extend(Pt(-1, 5))
	assert.Equal(t, Rect{Min: Pt(-1, 2), Max: Pt(1, 5)}, r)
	assert.Equal(t, 2.0, r.Dx())
	assert.Equal(t, r, r.Union(EmptyRect()))
	assert.Equal(t, Rect{Min: Pt(-2, 1), Max: Pt(2, 6)}, r.Inset(1))
	assert.True(t, r.Contains(Pt(0, 3)))
	assert.False(t, r.Contains(Pt(0, 6)))
}
