package otquery

import (
	"github.com/npillmayer/glyphatlas/core/font/opentype"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
	"golang.org/x/image/font/sfnt"
)

// --- Font Information -------------------------------------------------

// FontMetrics retrieves selected metrics of a font.
//
// Ascent and descent are taken from table hhea. Fonts which leave them at 0
// get the typographic values of table OS/2, if present.
func FontMetrics(otf *ot.Font) opentype.FontMetricsInfo {
	metrics := opentype.FontMetricsInfo{
		UnitsPerEm: sfnt.Units(otf.Head.UnitsPerEm),
		Ascent:     sfnt.Units(otf.HHea.Ascender),
		Descent:    sfnt.Units(otf.HHea.Descender),
		LineGap:    sfnt.Units(otf.HHea.LineGap),
		MaxAdvance: sfnt.Units(otf.HHea.AdvanceWidthMax),
		NumGlyphs:  otf.NumGlyphs(),
	}
	if metrics.Ascent == 0 && metrics.Descent == 0 {
		if os2 := otf.Table(ot.T("OS/2")); os2 != nil && len(os2.Binary()) >= 72 {
			b := os2.Binary()
			if a := sfnt.Units(i16(b[68:])); a > metrics.Ascent {
				tracer().Debugf("override of ascent: %d -> %d", metrics.Ascent, a)
				metrics.Ascent = a
			}
			if d := sfnt.Units(i16(b[70:])); d < metrics.Descent {
				tracer().Debugf("override of descent: %d -> %d", metrics.Descent, d)
				metrics.Descent = d
			}
		}
	}
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a give code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(otf *ot.Font, codepoint rune) ot.GlyphIndex {
	gid, _ := otf.CMap.Lookup(codepoint)
	return gid
}

// CodePointForGlyph returns the code-point for a given glyph index.
//
// This is an inefficient operation: All code-points contained in the font's CMap
// are checked sequentially if they produce the given glyph.
// If the glyph index does not correspond to a code-point, 0 is returned.
func CodePointForGlyph(otf *ot.Font, gid ot.GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	return otf.CMap.GlyphIndexMap.ReverseLookup(gid)
}

// GlyphMetrics retrieves metrics for a given glyph.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) (opentype.GlyphMetricsInfo, error) {
	metrics := opentype.GlyphMetricsInfo{}
	advance, lsb, err := otf.GlyphMetrics(gid)
	if err != nil {
		return metrics, err
	}
	metrics.Advance, metrics.LSB = sfnt.Units(advance), sfnt.Units(lsb)
	data, err := otf.GlyphData(gid)
	if err != nil {
		return metrics, err
	}
	if len(data) >= 10 {
		metrics.BBox = opentype.BoundingBox{
			MinX: sfnt.Units(i16(data[2:])),
			MinY: sfnt.Units(i16(data[4:])),
			MaxX: sfnt.Units(i16(data[6:])),
			MaxY: sfnt.Units(i16(data[8:])),
		}
	}
	// RSB calculation: rsb = aw - (lsb + xMax - xMin)
	// From the spec:
	// If a glyph has no contours, xMax/xMin are not defined. The left side bearing indicated
	// in the 'hmtx' table for such glyphs should be zero.
	if !metrics.BBox.Empty() { // leave RSB for empty bboxes
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics, nil
}

func i16(b []byte) int16 {
	return int16(b[0])<<8 | int16(b[1])<<0
}
