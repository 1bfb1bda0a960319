/*
Package otglyph decodes TrueType glyph outlines from table 'glyf'.

Simple glyphs are decoded from their point and flag streams. Composite glyphs
are resolved recursively: every component's contours are transformed and
appended to the parent's list of contours. The nesting depth of composite
glyphs is limited to MaxDepth, which protects against malformed fonts with
cyclic component references.

Outlines may be converted to curve segments (lines and quadratic Bézier
curves), which is the representation used for subsampling and distance
computation.

The flag handling follows the freetype package,
https://github.com/golang/freetype/blob/master/truetype/glyph.go.
*/
package otglyph

import (
	"fmt"
	"math"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/math/f64"
)

// tracer writes to trace with key 'glyphatlas.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.fonts")
}

// MaxDepth is the maximum nesting level of composite glyphs.
const MaxDepth = 8

// Flags for decoding a glyph's contours. These flags are documented at
// https://docs.microsoft.com/en-us/typography/opentype/spec/glyf#simple-glyph-description
const (
	flagOnCurve = 1 << iota
	flagXShortVector
	flagYShortVector
	flagRepeat
	flagPositiveXShortVector
	flagPositiveYShortVector
)

// The same flag bits (0x10 and 0x20) are overloaded to have two meanings,
// dependent on the value of the flag{X,Y}ShortVector bits.
const (
	flagThisXIsSame = flagPositiveXShortVector
	flagThisYIsSame = flagPositiveYShortVector
)

// Flags for decoding a composite glyph. These flags are documented at
// https://docs.microsoft.com/en-us/typography/opentype/spec/glyf#composite-glyph-description
const (
	flagArg1And2AreWords = 1 << iota
	flagArgsAreXYValues
	flagRoundXYToGrid
	flagWeHaveAScale
	flagUnused
	flagMoreComponents
	flagWeHaveAnXAndYScale
	flagWeHaveATwoByTwo
	flagWeHaveInstructions
	flagUseMyMetrics
	flagOverlapCompound
	flagScaledComponentOffset
	flagUnscaledComponentOffset
)

// Point is a point of a glyph's contour in font units.
type Point struct {
	X, Y    float64
	OnCurve bool
}

// BBox is a bounding box as stored in table 'glyf'.
type BBox struct {
	XMin, YMin, XMax, YMax int16
}

func (b BBox) String() string {
	return fmt.Sprintf("[%d,%d – %d,%d]", b.XMin, b.YMin, b.XMax, b.YMax)
}

// Outline is the decoded outline of a glyph. Contour i consists of the points
// from EndPoints[i-1]+1 to EndPoints[i] (inclusive), and is implicitly closed.
type Outline struct {
	Glyph     ot.GlyphIndex
	Points    []Point
	EndPoints []int
	Bounds    BBox // bounding box from the glyph header
	Composite bool
}

// Contours returns the points of the outline, split into contours.
func (o *Outline) Contours() [][]Point {
	contours := make([][]Point, 0, len(o.EndPoints))
	start := 0
	for _, end := range o.EndPoints {
		contours = append(contours, o.Points[start:end+1])
		start = end + 1
	}
	return contours
}

// Decode extracts the outline of a glyph. Glyphs without an outline (e.g.,
// 'space') result in an empty outline.
//
// Malformed glyph data fails with core.ErrInvalidFont or core.ErrOutOfRange.
func Decode(otf *ot.Font, gid ot.GlyphIndex) (*Outline, error) {
	return decode(otf, gid, 0)
}

func decode(otf *ot.Font, gid ot.GlyphIndex, depth int) (*Outline, error) {
	if depth > MaxDepth {
		tracer().Errorf("composite glyph nesting exceeds %d levels at glyph %d", MaxDepth, gid)
		return nil, core.Error(core.EINVALID, "composite glyph nesting too deep at glyph %d (cyclic?)", gid)
	}
	data, err := otf.GlyphData(gid)
	if err != nil {
		return nil, err
	}
	outline := &Outline{Glyph: gid}
	if len(data) == 0 {
		return outline, nil
	}
	r := ot.NewReader(data)
	n, err := r.I16()
	if err != nil {
		return nil, err
	}
	var box [4]int16
	for i := range box {
		if box[i], err = r.I16(); err != nil {
			return nil, err
		}
	}
	outline.Bounds = BBox{box[0], box[1], box[2], box[3]}
	if n >= 0 {
		err = decodeSimple(r, int(n), outline)
	} else {
		outline.Composite = true
		err = decodeComposite(otf, r, outline, depth)
	}
	if err != nil {
		return nil, err
	}
	return outline, nil
}

func errGlyph(gid ot.GlyphIndex, msg string) error {
	return core.Error(core.EINVALID, "glyph %d: %s", gid, msg)
}

func decodeSimple(r *ot.Reader, ncontours int, outline *Outline) error {
	outline.EndPoints = make([]int, ncontours)
	last := -1
	for i := range outline.EndPoints {
		end, err := r.U16()
		if err != nil {
			return err
		}
		if int(end) <= last {
			return errGlyph(outline.Glyph, "contour end points not ascending")
		}
		outline.EndPoints[i], last = int(end), int(end)
	}
	npoints := last + 1
	instrLen, err := r.U16()
	if err != nil {
		return err
	}
	if err = r.Skip(int(instrLen)); err != nil {
		return err
	}
	// Decode the flags.
	flags := make([]byte, 0, npoints)
	for len(flags) < npoints {
		c, err := r.U8()
		if err != nil {
			return err
		}
		flags = append(flags, c)
		if c&flagRepeat != 0 {
			count, err := r.U8()
			if err != nil {
				return err
			}
			if len(flags)+int(count) > npoints {
				return errGlyph(outline.Glyph, "flag repetition exceeds number of points")
			}
			for ; count > 0; count-- {
				flags = append(flags, c)
			}
		}
	}
	// Decode the co-ordinates.
	xs, err := coordinates(r, flags, flagXShortVector, flagPositiveXShortVector, flagThisXIsSame)
	if err != nil {
		return err
	}
	ys, err := coordinates(r, flags, flagYShortVector, flagPositiveYShortVector, flagThisYIsSame)
	if err != nil {
		return err
	}
	outline.Points = make([]Point, npoints)
	for i := range outline.Points {
		outline.Points[i] = Point{
			X:       float64(xs[i]),
			Y:       float64(ys[i]),
			OnCurve: flags[i]&flagOnCurve != 0,
		}
	}
	return nil
}

// coordinates reads the deltas of one axis and accumulates them, starting
// at 0.
func coordinates(r *ot.Reader, flags []byte, short, positive, same byte) ([]int32, error) {
	values := make([]int32, len(flags))
	var v int32
	for i, f := range flags {
		if f&short != 0 {
			d, err := r.U8()
			if err != nil {
				return nil, err
			}
			if f&positive == 0 {
				v -= int32(d)
			} else {
				v += int32(d)
			}
		} else if f&same == 0 {
			d, err := r.I16()
			if err != nil {
				return nil, err
			}
			v += int32(d)
		}
		values[i] = v
	}
	return values, nil
}

// component transform epsilon, see
// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6glyf.html
const scaleEpsilon = 33.0 / 65536.0

func decodeComposite(otf *ot.Font, r *ot.Reader, outline *Outline, depth int) error {
	for {
		flags, err := r.U16()
		if err != nil {
			return err
		}
		child, err := r.U16()
		if err != nil {
			return err
		}
		arg1, arg2, err := componentArgs(r, flags)
		if err != nil {
			return err
		}
		a, b, c, d := 1.0, 0.0, 0.0, 1.0
		switch {
		case flags&flagWeHaveAScale != 0:
			if a, err = r.F2Dot14(); err != nil {
				return err
			}
			d = a
		case flags&flagWeHaveAnXAndYScale != 0:
			if a, err = r.F2Dot14(); err == nil {
				d, err = r.F2Dot14()
			}
		case flags&flagWeHaveATwoByTwo != 0:
			if a, err = r.F2Dot14(); err == nil {
				if b, err = r.F2Dot14(); err == nil {
					if c, err = r.F2Dot14(); err == nil {
						d, err = r.F2Dot14()
					}
				}
			}
		}
		if err != nil {
			return err
		}
		sub, err := decode(otf, ot.GlyphIndex(child), depth+1)
		if err != nil {
			return err
		}
		// x' = a·x + c·y + e,  y' = b·x + d·y + f
		m := f64.Aff3{a, c, 0, b, d, 0}
		if flags&flagArgsAreXYValues != 0 {
			e, f := float64(arg1), float64(arg2)
			if flags&flagUnscaledComponentOffset == 0 {
				e, f = scaleOffset(a, b, c, d, e, f)
			}
			m[2], m[5] = e, f
		} else {
			if int(arg1) >= len(outline.Points) || int(arg2) >= len(sub.Points) {
				return errGlyph(outline.Glyph, "component anchor point out of range")
			}
			parent := outline.Points[arg1]
			x, y := transform(m, sub.Points[arg2].X, sub.Points[arg2].Y)
			m[2], m[5] = parent.X-x, parent.Y-y
		}
		offset := len(outline.Points)
		for _, p := range sub.Points {
			x, y := transform(m, p.X, p.Y)
			outline.Points = append(outline.Points, Point{X: x, Y: y, OnCurve: p.OnCurve})
		}
		for _, end := range sub.EndPoints {
			outline.EndPoints = append(outline.EndPoints, end+offset)
		}
		if flags&flagMoreComponents == 0 {
			break
		}
	}
	tracer().Debugf("composite glyph %d has %d contours", outline.Glyph, len(outline.EndPoints))
	return nil
}

func componentArgs(r *ot.Reader, flags uint16) (int32, int32, error) {
	if flags&flagArg1And2AreWords != 0 {
		if flags&flagArgsAreXYValues != 0 {
			a1, err := r.I16()
			if err != nil {
				return 0, 0, err
			}
			a2, err := r.I16()
			return int32(a1), int32(a2), err
		}
		a1, err := r.U16()
		if err != nil {
			return 0, 0, err
		}
		a2, err := r.U16()
		return int32(a1), int32(a2), err
	}
	a1, err := r.U8()
	if err != nil {
		return 0, 0, err
	}
	a2, err := r.U8()
	if flags&flagArgsAreXYValues != 0 {
		return int32(int8(a1)), int32(int8(a2)), err
	}
	return int32(a1), int32(a2), err
}

// scaleOffset scales a component offset by the transform, using the
// heuristic of the Apple TrueType reference manual.
func scaleOffset(a, b, c, d, e, f float64) (float64, float64) {
	m := math.Max(math.Abs(a), math.Abs(b))
	if math.Abs(math.Abs(a)-math.Abs(c)) <= scaleEpsilon {
		m *= 2
	}
	n := math.Max(math.Abs(c), math.Abs(d))
	if math.Abs(math.Abs(b)-math.Abs(d)) <= scaleEpsilon {
		n *= 2
	}
	return m * e, n * f
}

func transform(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}
