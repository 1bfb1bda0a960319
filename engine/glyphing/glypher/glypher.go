package glypher

import (
	"io"
	"strings"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
	"github.com/npillmayer/glyphatlas/core/font/opentype/otquery"
	"github.com/npillmayer/glyphatlas/engine/glyphing"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

type glypher struct{}

// Instance returns a shaper.
func Instance() glyphing.Shaper {
	return glypher{}
}

// Shape creates a glyph sequence from a text.
func (g glypher) Shape(text io.RuneReader, buf []glyphing.SetGlyph, p glyphing.Params) (glyphing.GlyphSequence, error) {
	if p.Font == nil {
		return glyphing.GlyphSequence{}, core.Error(core.EINVALID, "shaping needs a font")
	}
	if text == nil {
		return glyphing.GlyphSequence{Glyphs: buf[:0]}, nil
	}
	var sb strings.Builder
	for {
		r, _, err := text.ReadRune()
		if err == io.EOF {
			break
		} else if err != nil {
			return glyphing.GlyphSequence{}, core.WrapError(err, core.EINVALID, "cannot read text")
		}
		sb.WriteRune(r)
	}
	return shape(norm.NFC.String(sb.String()), buf, p)
}

// TextSet shapes a text with a font of size emSize pixels, starting at
// cursor.
func TextSet(f *font.FontFile, text string, emSize float64, cursor fixed.Point26_6) (glyphing.GlyphSequence, error) {
	p := glyphing.Params{Font: f, EmSize: emSize, Cursor: cursor}
	return Instance().Shape(strings.NewReader(text), nil, p)
}

// TextSetUTF16 is like TextSet for UTF-16 encoded text. Without a byte order
// mark, the text is taken to be big-endian.
func TextSetUTF16(f *font.FontFile, text []byte, emSize float64, cursor fixed.Point26_6) (glyphing.GlyphSequence, error) {
	dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	s, err := dec.Bytes(text)
	if err != nil {
		return glyphing.GlyphSequence{}, core.WrapError(err, core.EINVALID, "malformed UTF-16 text")
	}
	return TextSet(f, string(s), emSize, cursor)
}

// shape works on normalized text.
func shape(text string, buf []glyphing.SetGlyph, p glyphing.Params) (glyphing.GlyphSequence, error) {
	glyphs := buf[:0]
	for i, r := range []rune(text) {
		gid, ok := p.Font.GlyphIndex(r)
		if !ok {
			tracer().Debugf("no glyph for %#U in font %s", r, p.Font.Fontname)
		}
		glyphs = append(glyphs, glyphing.SetGlyph{GID: gid, CodePoint: r, ClusterID: i})
	}
	glyphs, err := Ligatures(p.Font, glyphs)
	if err != nil {
		return glyphing.GlyphSequence{}, err
	}
	return place(glyphs, p)
}

// Ligatures substitutes ligatures in a run of glyphs and returns the
// shortened run. Starting from the end of the run, the glyphs ending at each
// position are tried for a ligature of three glyphs, then for one of two
// glyphs. This is repeated until nothing changes.
//
// A ligature inherits code-point and cluster from its first glyph.
func Ligatures(f *font.FontFile, glyphs []glyphing.SetGlyph) ([]glyphing.SetGlyph, error) {
	run := make([]ot.GlyphIndex, 0, 3)
	for changed := true; changed; {
		changed = false
		for i := len(glyphs) - 1; i >= 1; i-- {
			if i >= len(glyphs) { // run shortened by a substitution
				continue
			}
			for _, n := range []int{3, 2} {
				start := i - n + 1
				if start < 0 {
					continue
				}
				run = run[:0]
				for _, g := range glyphs[start : i+1] {
					run = append(run, g.GID)
				}
				lig, ok, err := f.TrySubstitution(run)
				if err != nil {
					return glyphs, err
				}
				if ok {
					tracer().Debugf("ligature %v → %d", run, lig)
					glyphs[start].GID = lig
					glyphs = append(glyphs[:start+1], glyphs[i+1:]...)
					changed = true
					break
				}
			}
		}
	}
	return glyphs, nil
}

// place positions glyphs, using advance widths and kerning.
func place(glyphs []glyphing.SetGlyph, p glyphing.Params) (glyphing.GlyphSequence, error) {
	scale := p.Scale()
	seq := glyphing.GlyphSequence{Glyphs: glyphs}
	x := float64(0)
	for i := range glyphs {
		g := &glyphs[i]
		next := ot.NoGlyph
		if i+1 < len(glyphs) {
			next = glyphs[i+1].GID
		}
		advance, lsb, err := p.Font.AdvanceBearing(g.GID, next)
		if err != nil {
			return glyphing.GlyphSequence{}, err
		}
		if g.RawMetrics, err = otquery.GlyphMetrics(p.Font.OT, g.GID); err != nil {
			return glyphing.GlyphSequence{}, err
		}
		g.Pen = fixed.Point26_6{X: p.Cursor.X + glyphing.Fixed(x), Y: p.Cursor.Y}
		g.Advance = glyphing.Fixed(float64(advance) * scale)
		g.Bearing = glyphing.Fixed(float64(lsb) * scale)
		if bbox := g.RawMetrics.BBox; !bbox.Empty() {
			g.Bounds = fixed.Rectangle26_6{
				Min: fixed.Point26_6{
					X: g.Pen.X + glyphing.Fixed(float64(bbox.MinX)*scale),
					Y: g.Pen.Y - glyphing.Fixed(float64(bbox.MaxY)*scale),
				},
				Max: fixed.Point26_6{
					X: g.Pen.X + glyphing.Fixed(float64(bbox.MaxX)*scale),
					Y: g.Pen.Y - glyphing.Fixed(float64(bbox.MinY)*scale),
				},
			}
			seq.Bounds = seq.Bounds.Union(g.Bounds)
		} else {
			g.Bounds = fixed.Rectangle26_6{Min: g.Pen, Max: g.Pen}
		}
		x += float64(advance) * scale
	}
	seq.Advance = glyphing.Fixed(x)
	tracer().Debugf("shaped %d glyphs, advance %v", len(glyphs), seq.Advance)
	return seq, nil
}
