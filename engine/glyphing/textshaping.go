/*
Package glyphing defines the results of text shaping: sequences of glyphs,
positioned by a shaper.

Glyph positions are given in pixels, as 26.6 fixed-point numbers, in the
conventions of golang.org/x/image/font: the pen moves along the baseline
from left to right and the y-axis points downwards. Shapers are found in
sub-packages.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package glyphing

import (
	"fmt"
	"io"
	"math"

	"github.com/npillmayer/glyphatlas/core/font"
	"github.com/npillmayer/glyphatlas/core/font/opentype"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
	"golang.org/x/image/math/fixed"
)

// A SetGlyph is a glyph placed by a shaper.
type SetGlyph struct {
	GID        ot.GlyphIndex             // glyph index within font
	CodePoint  rune                      // code-point of first rune to produce this glyph
	ClusterID  int                       // position of code-point(s) for this glyph in original text
	Pen        fixed.Point26_6           // position of the glyph's origin
	Advance    fixed.Int26_6             // advance after glyph has been set, including kerning
	Bearing    fixed.Int26_6             // left side bearing
	Bounds     fixed.Rectangle26_6       // bounding box of the glyph, at the glyph's position
	RawMetrics opentype.GlyphMetricsInfo // metrics in font units
}

func (g SetGlyph) String() string {
	return fmt.Sprintf("(GID=%d, pen=%v, advance=%v)", g.GID, g.Pen, g.Advance)
}

// GlyphSequence contains a sequence of shaped glyphs.
type GlyphSequence struct {
	Glyphs  []SetGlyph          // resulting sequence of glyphs
	Advance fixed.Int26_6       // sum of all advances
	Bounds  fixed.Rectangle26_6 // union of the glyphs' bounding boxes
}

// BoundingBox returns the extent of all glyphs of a sequence.
func (seq GlyphSequence) BoundingBox() fixed.Rectangle26_6 {
	return seq.Bounds
}

// GIDs returns the glyph indices of a sequence.
func (seq GlyphSequence) GIDs() []ot.GlyphIndex {
	gids := make([]ot.GlyphIndex, len(seq.Glyphs))
	for i, g := range seq.Glyphs {
		gids[i] = g.GID
	}
	return gids
}

// A Shaper creates a sequence of glyphs from a sequence of
// Unicode code-points. Glyphs are taken from a font, given in a specific
// size.
//
// Clients may pass a buffer for the glyphs to avoid allocations.
type Shaper interface {
	Shape(text io.RuneReader, buf []SetGlyph, p Params) (GlyphSequence, error)
}

// Params collects shaping parameters.
type Params struct {
	Font   *font.FontFile  // font to take glyphs from
	EmSize float64         // size of the em-square in pixels
	Cursor fixed.Point26_6 // pen position of the first glyph
}

// Scale returns the factor for converting font units to pixels.
func (p Params) Scale() float64 {
	return p.EmSize / float64(p.Font.UnitsPerEm())
}

// Fixed converts a pixel value to a 26.6 fixed-point value, rounding to the
// nearest 1/64.
func Fixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
