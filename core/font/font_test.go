package font

import (
	"errors"
	"testing"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/curve"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ottest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func loadScenario(t *testing.T, b *ottest.Builder) *FontFile {
	f, err := Load("scenario", b.Build())
	require.NoError(t, err)
	return f
}

func TestShapingFacade(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	f := loadScenario(t, ottest.Scenario())
	assert.Equal(t, "scenario", f.Name())
	assert.Equal(t, ottest.ScenarioUnitsPerEm, f.UnitsPerEm())
	gf, ok := f.GlyphIndex('f')
	require.True(t, ok)
	gi, _ := f.GlyphIndex('i')
	ga, _ := f.GlyphIndex('a')
	_, ok = f.GlyphIndex('z')
	assert.False(t, ok)
	//
	lig, ok, err := f.TrySubstitution([]ot.GlyphIndex{gf, gi})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ot.GlyphIndex(ottest.GlyphFI), lig)
	_, ok, _ = f.TrySubstitution([]ot.GlyphIndex{gf, ga})
	assert.False(t, ok)
	//
	adv, lsb, err := f.AdvanceBearing(gf, ga)
	require.NoError(t, err)
	assert.Equal(t, ottest.AdvanceF+ottest.KernFA, adv)
	assert.Equal(t, 40, lsb)
	adv, _, _ = f.AdvanceBearing(gf, gi)
	assert.Equal(t, ottest.AdvanceF, adv)
	adv, _, _ = f.AdvanceBearing(ga, ot.NoGlyph)
	assert.Equal(t, ottest.AdvanceA, adv)
	_, _, err = f.AdvanceBearing(99, ot.NoGlyph)
	assert.True(t, errors.Is(err, core.ErrOutOfRange))
}

func TestForLanguage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	f := loadScenario(t, ottest.Scenario())
	assert.Equal(t, ot.T("latn"), f.Script)
	assert.Equal(t, ot.Tag(0), f.Language)
	trk, err := f.ForLanguage(language.Turkish)
	require.NoError(t, err)
	assert.Equal(t, ot.T("latn"), trk.Script)
	assert.Equal(t, ot.T("TRK"), trk.Language)
	assert.Equal(t, ot.Tag(0), f.Language, "original font must not change")
	lig, ok, err := trk.TrySubstitution([]ot.GlyphIndex{ottest.GlyphF, ottest.GlyphI})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ot.GlyphIndex(ottest.GlyphFI), lig)
	//
	// script without features in the font falls back to DFLT
	rus, err := f.ForLanguage(language.Russian)
	require.NoError(t, err)
	assert.Equal(t, ot.T("cyrl"), rus.Script)
	_, ok, err = rus.TrySubstitution([]ot.GlyphIndex{ottest.GlyphF, ottest.GlyphI})
	require.NoError(t, err)
	assert.True(t, ok)
	adv, _, err := rus.AdvanceBearing(ottest.GlyphF, ottest.GlyphA)
	require.NoError(t, err)
	assert.Equal(t, ottest.AdvanceF+ottest.KernFA, adv)
}

func TestFontWithoutFeatures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	b := ottest.New(1000)
	b.AddGlyph(ottest.Glyph{Advance: 500})
	g := b.AddGlyph(ottest.Glyph{Advance: 400, Contours: [][]ottest.Point{ottest.Rect(0, 0, 300, 300)}})
	b.Map('x', g)
	f := loadScenario(t, b)
	_, ok, err := f.TrySubstitution([]ot.GlyphIndex{1, 1})
	assert.NoError(t, err)
	assert.False(t, ok)
	k, ok, err := f.LookupKerning(1, 1)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int16(0), k)
	adv, _, err := f.AdvanceBearing(1, 1)
	assert.NoError(t, err)
	assert.Equal(t, 400, adv)
}

func TestUnsupportedKerningFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	f := loadScenario(t, ottest.Scenario().UnsupportedPositioning(8))
	_, _, err := f.AdvanceBearing(ottest.GlyphF, ottest.GlyphA)
	assert.True(t, errors.Is(err, core.ErrNotImplemented))
}

func TestOutline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	f := loadScenario(t, ottest.Scenario())
	segs, bounds, err := f.Outline(ottest.GlyphA)
	require.NoError(t, err)
	assert.Equal(t, curve.Rect{Min: curve.Pt(40, 0), Max: curve.Pt(460, 480)}, bounds)
	require.NotEmpty(t, segs)
	assert.Equal(t, segs[0].Start, segs[len(segs)-1].End, "contour not closed")
	assert.Equal(t, bounds, curve.Bounds(segs))
	//
	_, bounds, err = f.Outline(ottest.GlyphFI)
	require.NoError(t, err)
	assert.Equal(t, curve.Rect{Min: curve.Pt(40, 0), Max: curve.Pt(460, 700)}, bounds)
}

func TestFallbackFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	f := FallbackFont()
	require.NotNil(t, f)
	assert.Same(t, f, FallbackFont())
	assert.Equal(t, "Go Regular", f.Name())
	assert.Equal(t, 2048, f.UnitsPerEm())
	assert.Equal(t, 712, f.Metrics().NumGlyphs)
	// every outline lies within the bounding box stored with the glyph
	for gid := 0; gid < f.OT.NumGlyphs(); gid++ {
		segs, bounds, err := f.Outline(ot.GlyphIndex(gid))
		require.NoError(t, err, "glyph %d", gid)
		if len(segs) == 0 {
			continue
		}
		r := curve.Bounds(segs)
		assert.True(t, r.Min.X >= bounds.Min.X && r.Min.Y >= bounds.Min.Y &&
			r.Max.X <= bounds.Max.X && r.Max.Y <= bounds.Max.Y,
			"glyph %d: outline %v exceeds %v", gid, r, bounds)
	}
}

func TestOpenMissingFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	_, err := Open("testdata/does-not-exist.ttf")
	assert.Equal(t, core.EMISSING, core.Code(err))
}
