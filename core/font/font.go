/*
Package font provides font files as a facade for shaping and glyph outlines.

A FontFile combines the OpenType table accessor of package ot with the layout
features of package otlayout and the outline decoder of package otglyph. It
answers the questions a text shaper and an atlas builder have:

▪︎ which glyph represents a code-point

▪︎ does a run of glyphs form a ligature

▪︎ how far to advance after a glyph, including kerning

▪︎ what is the outline of a glyph, as curve segments

A FontFile is read-only after it has been loaded, and may be used from
concurrent goroutines. Outlines are not cached; clients which need a glyph's
outline more than once should keep the result.

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package font

import (
	"os"
	"sync"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/curve"
	"github.com/npillmayer/glyphatlas/core/font/opentype"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
	"github.com/npillmayer/glyphatlas/core/font/opentype/otglyph"
	"github.com/npillmayer/glyphatlas/core/font/opentype/otlang"
	"github.com/npillmayer/glyphatlas/core/font/opentype/otlayout"
	"github.com/npillmayer/glyphatlas/core/font/opentype/otquery"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/language"
)

// tracer writes to trace with key 'glyphatlas.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.fonts")
}

// Script is the script fonts look up layout features for, unless a language
// is selected with ForLanguage. Fonts without features for it are searched
// for features of script 'DFLT'.
var Script = ot.T("latn")

// FontFile is a parsed font, ready for shaping.
type FontFile struct {
	Fontname string   // name the font has been loaded as
	Filepath string   // file path, empty for fonts loaded from memory
	OT       *ot.Font // table accessor
	Script   ot.Tag   // script layout features are selected for
	Language ot.Tag   // language system layout features are selected for, 0 for default
	liga     *otlayout.Feature
	kern     *otlayout.Feature
}

// Open reads and parses a font file.
func Open(path string) (*FontFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		tracer().Errorf("cannot read font file %s: %v", path, err)
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", path)
	}
	f, err := Load(path, data)
	if err != nil {
		return nil, err
	}
	f.Filepath = path
	return f, nil
}

// Load parses font data. name is used for diagnostics and registry lookups.
//
// The ligature and kerning features are located once, during loading.
// Fonts with malformed layout tables fail to load.
func Load(name string, data []byte) (*FontFile, error) {
	otf, err := ot.Parse(data)
	if err != nil {
		tracer().Errorf("cannot parse font %s: %v", name, err)
		return nil, err
	}
	f := &FontFile{Fontname: name, OT: otf, Script: Script}
	if err = f.locateFeatures(); err != nil {
		return nil, err
	}
	tracer().Infof("loaded font %s with %d glyphs (liga=%v, kern=%v)", name, otf.NumGlyphs(),
		f.liga != nil, f.kern != nil)
	return f, nil
}

// ForLanguage returns a copy of f which selects layout features for a
// language. The OpenType script and language system are derived from lang
// (see package otlang). Scripts not present in the font fall back to
// 'DFLT', languages not present to the script's default language system.
func (f *FontFile) ForLanguage(lang language.Tag) (*FontFile, error) {
	g := *f
	g.Script, g.Language = otlang.Tags(lang)
	if err := g.locateFeatures(); err != nil {
		return nil, err
	}
	tracer().Debugf("font %s for language %v: script %v, language %v", f.Fontname, lang,
		g.Script, g.Language)
	return &g, nil
}

func (f *FontFile) locateFeatures() (err error) {
	f.liga, _, err = otlayout.FindFeature(f.OT, otlayout.GSubFeatureType, f.Script, f.Language, otlayout.LigaFeature)
	if err != nil {
		return err
	}
	f.kern, _, err = otlayout.FindFeature(f.OT, otlayout.GPosFeatureType, f.Script, f.Language, otlayout.KernFeature)
	return err
}

// Name returns the full name of the font, as stated in table 'name'. If the
// font has no usable name table, the name the font has been loaded as is
// returned.
func (f *FontFile) Name() string {
	names := otquery.NameInfo(f.OT)
	if n, ok := names["fullname"]; ok {
		return n
	}
	if n, ok := names["family"]; ok {
		return n
	}
	return f.Fontname
}

// UnitsPerEm returns the size of the font's design grid.
func (f *FontFile) UnitsPerEm() int {
	return int(f.OT.Head.UnitsPerEm)
}

// Metrics returns the global metrics of the font.
func (f *FontFile) Metrics() opentype.FontMetricsInfo {
	return otquery.FontMetrics(f.OT)
}

// GlyphIndex returns the glyph for a code-point. If the font has no glyph for
// r, glyph 0 ('.notdef') and false are returned.
func (f *FontFile) GlyphIndex(r rune) (ot.GlyphIndex, bool) {
	return f.OT.CMap.Lookup(r)
}

// TrySubstitution checks if a run of glyphs is replaced by a ligature. Fonts
// without a ligature feature never substitute. Both a missing feature and a
// run without a ligature result in false.
func (f *FontFile) TrySubstitution(run []ot.GlyphIndex) (ot.GlyphIndex, bool, error) {
	return f.liga.Ligature(run)
}

// LookupKerning returns the kerning adjustment in font units for glyph cur,
// followed by glyph next. Fonts without a kerning feature return false.
// Kerning lookups of unsupported type fail with core.ErrNotImplemented.
func (f *FontFile) LookupKerning(cur, next ot.GlyphIndex) (int16, bool, error) {
	return f.kern.Kerning(cur, next)
}

// AdvanceBearing returns the advance width of glyph cur, adjusted by
// kerning with the following glyph next, and the left side bearing of cur.
// Values are in font units. At the end of a text, next is ot.NoGlyph.
func (f *FontFile) AdvanceBearing(cur, next ot.GlyphIndex) (int, int, error) {
	advance, lsb, err := f.OT.GlyphMetrics(cur)
	if err != nil {
		return 0, 0, err
	}
	kern, _, err := f.LookupKerning(cur, next)
	if err != nil {
		return 0, 0, err
	}
	return int(advance) + int(kern), int(lsb), nil
}

// Outline decomposes the outline of a glyph into curve segments in font
// units. The bounding box is the one stored with the glyph; for glyphs
// without an outline it is the zero rectangle.
func (f *FontFile) Outline(gid ot.GlyphIndex) ([]curve.Segment, curve.Rect, error) {
	outline, err := otglyph.Decode(f.OT, gid)
	if err != nil {
		return nil, curve.Rect{}, err
	}
	b := outline.Bounds
	bounds := curve.Rect{
		Min: curve.Pt(float64(b.XMin), float64(b.YMin)),
		Max: curve.Pt(float64(b.XMax), float64(b.YMax)),
	}
	return outline.Segments(), bounds, nil
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *FontFile {
	fallbackFontLoading.Do(func() {
		var err error
		fallbackFont, err = Load(FallbackFontName, goregular.TTF)
		if err != nil {
			panic("cannot load default font") // this cannot happen
		}
		fallbackFont.Filepath = "internal"
	})
	return fallbackFont
}

// FallbackFontName is the name the fallback font is loaded as.
const FallbackFontName = "Go"

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
var fallbackFont *FontFile
