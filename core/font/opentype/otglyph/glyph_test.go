package otglyph

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/curve"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ottest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func parse(t *testing.T, b *ottest.Builder) *ot.Font {
	otf, err := ot.Parse(b.Build())
	require.NoError(t, err)
	return otf
}

func bbox(b [4]int16) BBox {
	return BBox{b[0], b[1], b[2], b[3]}
}

func TestSimpleGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	b := ottest.Scenario()
	otf := parse(t, b)
	o, err := Decode(otf, ot.GlyphIndex(ottest.GlyphI))
	require.NoError(t, err)
	assert.False(t, o.Composite)
	assert.Equal(t, []int{3, 7}, o.EndPoints)
	assert.Equal(t, bbox(b.GlyphBounds(ottest.GlyphI)), o.Bounds)
	want := []Point{
		{90, 0, true}, {90, 480, true}, {160, 480, true}, {160, 0, true},
		{90, 560, true}, {90, 640, true}, {160, 640, true}, {160, 560, true},
	}
	if diff := cmp.Diff(want, o.Points); diff != "" {
		t.Errorf("points of 'i' differ (-want +got):\n%s", diff)
	}
	assert.Len(t, o.Contours(), 2)
}

func TestRepeatedFlagsAndLongDeltas(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	var contour []ottest.Point
	for i := int16(0); i < 10; i++ {
		contour = append(contour, ottest.On(10*i, 0))
	}
	contour = append(contour, ottest.On(1000, 2000), ottest.Off(-700, 300), ottest.On(0, -300))
	b := ottest.New(1000)
	b.AddGlyph(ottest.Glyph{Advance: 500})
	gid := b.AddGlyph(ottest.Glyph{Advance: 500, Contours: [][]ottest.Point{contour}})
	o, err := Decode(parse(t, b), ot.GlyphIndex(gid))
	require.NoError(t, err)
	require.Len(t, o.Points, len(contour))
	for i, p := range contour {
		assert.Equal(t, Point{float64(p.X), float64(p.Y), p.OnCurve}, o.Points[i])
	}
	assert.Equal(t, BBox{-700, -300, 1000, 2000}, o.Bounds)
}

func TestEmptyGlyph(t *testing.T) {
	b := ottest.Scenario()
	space := b.AddGlyph(ottest.Glyph{Advance: 250})
	o, err := Decode(parse(t, b), ot.GlyphIndex(space))
	require.NoError(t, err)
	assert.Empty(t, o.Points)
	assert.Empty(t, o.Segments())
}

func TestCompositeGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	b := ottest.Scenario()
	otf := parse(t, b)
	f, _ := Decode(otf, ot.GlyphIndex(ottest.GlyphF))
	i, _ := Decode(otf, ot.GlyphIndex(ottest.GlyphI))
	fi, err := Decode(otf, ot.GlyphIndex(ottest.GlyphFI))
	require.NoError(t, err)
	assert.True(t, fi.Composite)
	assert.Equal(t, bbox(b.GlyphBounds(ottest.GlyphFI)), fi.Bounds)
	require.Len(t, fi.Points, len(f.Points)+len(i.Points))
	assert.Equal(t, f.Points, fi.Points[:len(f.Points)])
	for k, p := range i.Points {
		q := fi.Points[len(f.Points)+k]
		assert.Equal(t, Point{p.X + 300, p.Y, p.OnCurve}, q)
	}
	assert.Equal(t, []int{11, 15, 19}, fi.EndPoints)
}

func TestComponentTransforms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	b := ottest.Scenario()
	box := [4]int16{0, 0, 1000, 1000}
	half := b.AddGlyph(ottest.Glyph{Advance: 500, Bounds: &box, Components: []ottest.Component{
		{Glyph: ottest.GlyphI, DX: 100, DY: 10, Transform: []float64{0.5}, Unscaled: true},
	}})
	halfScaled := b.AddGlyph(ottest.Glyph{Advance: 500, Bounds: &box, Components: []ottest.Component{
		{Glyph: ottest.GlyphI, DX: 100, DY: 10, Transform: []float64{0.5}},
	}})
	rotated := b.AddGlyph(ottest.Glyph{Advance: 500, Bounds: &box, Components: []ottest.Component{
		{Glyph: ottest.GlyphI, DX: 7, DY: 0, Transform: []float64{0, 1, -1, 0}},
	}})
	stretched := b.AddGlyph(ottest.Glyph{Advance: 500, Bounds: &box, Components: []ottest.Component{
		{Glyph: ottest.GlyphI, Transform: []float64{1.5, 0.25}},
	}})
	otf := parse(t, b)
	i, _ := Decode(otf, ot.GlyphIndex(ottest.GlyphI))
	check := func(gid uint16, fn func(Point) Point) {
		o, err := Decode(otf, ot.GlyphIndex(gid))
		require.NoError(t, err)
		require.Len(t, o.Points, len(i.Points))
		for k, p := range i.Points {
			want := fn(p)
			assert.InDelta(t, want.X, o.Points[k].X, 1e-9, "glyph %d point %d", gid, k)
			assert.InDelta(t, want.Y, o.Points[k].Y, 1e-9, "glyph %d point %d", gid, k)
		}
	}
	check(half, func(p Point) Point { return Point{X: p.X/2 + 100, Y: p.Y/2 + 10} })
	check(halfScaled, func(p Point) Point { return Point{X: p.X/2 + 50, Y: p.Y/2 + 5} })
	check(rotated, func(p Point) Point { return Point{X: -p.Y + 7, Y: p.X} })
	check(stretched, func(p Point) Point { return Point{X: 1.5 * p.X, Y: p.Y / 4} })
}

func TestAnchoredComponent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	b := ottest.Scenario()
	box := [4]int16{0, 0, 1000, 1000}
	anchored := b.AddGlyph(ottest.Glyph{Advance: 500, Bounds: &box, Components: []ottest.Component{
		{Glyph: ottest.GlyphA},
		{Glyph: ottest.GlyphI, Anchor: true, DX: 2, DY: 1}, // parent point 2 (250,480) ↔ point 1 of 'i' (90,480)
	}})
	bad := b.AddGlyph(ottest.Glyph{Advance: 500, Bounds: &box, Components: []ottest.Component{
		{Glyph: ottest.GlyphA},
		{Glyph: ottest.GlyphI, Anchor: true, DX: 99, DY: 1},
	}})
	otf := parse(t, b)
	o, err := Decode(otf, ot.GlyphIndex(anchored))
	require.NoError(t, err)
	assert.Equal(t, Point{250, 480, true}, o.Points[5+1])
	assert.Equal(t, Point{90 + 160, 0, true}, o.Points[5])
	_, err = Decode(otf, ot.GlyphIndex(bad))
	assert.True(t, errors.Is(err, core.ErrInvalidFont))
}

func TestCompositeNestingLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	b := ottest.Scenario()
	box := [4]int16{0, 0, 1000, 1000}
	gid := uint16(ottest.GlyphI)
	for level := 0; level < MaxDepth; level++ {
		gid = b.AddGlyph(ottest.Glyph{Advance: 500, Bounds: &box, Components: []ottest.Component{{Glyph: gid}}})
	}
	deepest := gid
	tooDeep := b.AddGlyph(ottest.Glyph{Advance: 500, Bounds: &box, Components: []ottest.Component{{Glyph: deepest}}})
	cyclic := uint16(tooDeep + 1)
	b.AddGlyph(ottest.Glyph{Advance: 500, Bounds: &box, Components: []ottest.Component{{Glyph: cyclic}}})
	otf := parse(t, b)
	o, err := Decode(otf, ot.GlyphIndex(deepest))
	require.NoError(t, err)
	assert.Len(t, o.Points, 8)
	_, err = Decode(otf, ot.GlyphIndex(tooDeep))
	assert.True(t, errors.Is(err, core.ErrInvalidFont), "nesting: %v", err)
	_, err = Decode(otf, ot.GlyphIndex(cyclic))
	assert.True(t, errors.Is(err, core.ErrInvalidFont), "cycle: %v", err)
}

func TestSegments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	o := &Outline{
		Points: []Point{
			{0, 0, false}, {10, 0, true}, {10, 10, false}, {0, 10, false}, // starts off-curve
			{20, 0, true}, {30, 0, true}, {30, 10, true}, // triangle
			{50, 0, false}, {60, 10, false}, // all off-curve
		},
		EndPoints: []int{3, 6, 8},
	}
	segs := o.Segments()
	want := []curve.Segment{
		curve.Quad(curve.Pt(0, 5), curve.Pt(0, 0), curve.Pt(10, 0)),
		curve.Quad(curve.Pt(10, 0), curve.Pt(10, 10), curve.Pt(5, 10)),
		curve.Quad(curve.Pt(5, 10), curve.Pt(0, 10), curve.Pt(0, 5)),
		curve.Line(curve.Pt(20, 0), curve.Pt(30, 0)),
		curve.Line(curve.Pt(30, 0), curve.Pt(30, 10)),
		curve.Line(curve.Pt(30, 10), curve.Pt(20, 0)),
		curve.Quad(curve.Pt(55, 5), curve.Pt(50, 0), curve.Pt(55, 5)),
		curve.Quad(curve.Pt(55, 5), curve.Pt(60, 10), curve.Pt(55, 5)),
	}
	if diff := cmp.Diff(want, segs, cmp.AllowUnexported(curve.ArcShape{})); diff != "" {
		t.Errorf("segments differ (-want +got):\n%s", diff)
	}
}

func TestSegmentsOfScenarioAreClosed(t *testing.T) {
	otf := parse(t, ottest.Scenario())
	for gid := 0; gid < otf.NumGlyphs(); gid++ {
		o, err := Decode(otf, ot.GlyphIndex(gid))
		require.NoError(t, err)
		for _, contour := range o.Contours() {
			segs := appendContour(nil, contour)
			require.NotEmpty(t, segs)
			for k := 1; k < len(segs); k++ {
				assert.Equal(t, segs[k-1].End, segs[k].Start, "glyph %d", gid)
			}
			assert.Equal(t, segs[0].Start, segs[len(segs)-1].End, "glyph %d", gid)
		}
	}
}

func TestGoRegularBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	otf, err := ot.Parse(goregular.TTF)
	require.NoError(t, err)
	for gid := 0; gid < otf.NumGlyphs(); gid++ {
		o, err := Decode(otf, ot.GlyphIndex(gid))
		require.NoError(t, err, "glyph %d", gid)
		if len(o.Points) == 0 {
			continue
		}
		box := BBox{math.MaxInt16, math.MaxInt16, math.MinInt16, math.MinInt16}
		for _, p := range o.Points {
			box.XMin, box.YMin = min16(box.XMin, p.X), min16(box.YMin, p.Y)
			box.XMax, box.YMax = max16(box.XMax, p.X), max16(box.YMax, p.Y)
		}
		require.Equal(t, o.Bounds, box, "bounds of glyph %d", gid)
	}
}

func min16(a int16, b float64) int16 {
	if float64(a) < b {
		return a
	}
	return int16(b)
}

func max16(a int16, b float64) int16 {
	if float64(a) > b {
		return a
	}
	return int16(b)
}
