package atlas

import (
	"github.com/npillmayer/glyphatlas/core/curve"
	"github.com/npillmayer/glyphatlas/core/font"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
)

// GlyphShapes creates shapes from the glyphs of a font, scaled to emSize
// shape units per em. The returned index maps each rune to its shape.
// Runes the font has no glyph for map to the shape of glyph 0 ('.notdef');
// runes sharing a glyph share a shape.
func GlyphShapes(f *font.FontFile, runes []rune, emSize float64) ([]Shape, map[rune]int, error) {
	scale := emSize / float64(f.UnitsPerEm())
	shapes := make([]Shape, 0, len(runes))
	index := make(map[rune]int, len(runes))
	byGlyph := make(map[ot.GlyphIndex]int, len(runes))
	for _, r := range runes {
		if _, ok := index[r]; ok {
			continue
		}
		gid, _ := f.GlyphIndex(r)
		if i, ok := byGlyph[gid]; ok {
			index[r] = i
			continue
		}
		segs, bounds, err := f.Outline(gid)
		if err != nil {
			return nil, nil, err
		}
		for j := range segs {
			segs[j] = scaleSegment(segs[j], scale)
		}
		shapes = append(shapes, Shape{
			Name:    string(r),
			Outline: segs,
			Bounds:  bounds.Scale(scale),
		})
		byGlyph[gid] = len(shapes) - 1
		index[r] = len(shapes) - 1
	}
	tracer().Debugf("%d runes map to %d glyph shapes of font %s", len(runes), len(shapes), f.Fontname)
	return shapes, index, nil
}

// scaleSegment scales a line or Bézier curve, as found in glyph outlines.
func scaleSegment(s curve.Segment, scale float64) curve.Segment {
	s.Start, s.C1, s.C2, s.End = s.Start.Mul(scale), s.C1.Mul(scale), s.C2.Mul(scale), s.End.Mul(scale)
	return s
}
