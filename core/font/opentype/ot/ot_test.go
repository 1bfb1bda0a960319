package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ottest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func parseScenario(t *testing.T, b *ottest.Builder) *Font {
	otf, err := Parse(b.Build())
	require.NoError(t, err)
	return otf
}

func TestLookupRecordTypeString(t *testing.T) {
	assert.Equal(t, "Chaining", GSubLookupTypeChainingContext.GSubString())
	assert.Equal(t, "Reverse", GSubLookupTypeReverseChaining.GSubString())
	assert.Equal(t, "MarkToLigature", GPosLookupTypeMarkToLigature.GPosString())
	assert.Equal(t, "Ext", GPosLookupTypeExtensionPos.GPosString())
	assert.Equal(t, "12", LayoutTableLookupType(12).GSubString())
}

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	assert.Equal(t, "cmap", T("cmap").String())
	assert.Equal(t, T("TRK "), T("TRK"))
	assert.Equal(t, T("GSUB"), MakeTag([]byte("GSUB")))
	assert.Equal(t, Tag(0x6b), MakeTag([]byte("k")))
}

func TestParseScenarioFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	otf := parseScenario(t, ottest.Scenario())
	assert.Equal(t, 5, otf.NumGlyphs())
	assert.Equal(t, uint16(1000), otf.Head.UnitsPerEm)
	assert.NotNil(t, otf.Layout.GSub)
	assert.NotNil(t, otf.Layout.GPos)
	tags := otf.TableTags()
	assert.Len(t, tags, 9)
	for i := 1; i < len(tags); i++ {
		assert.Less(t, uint32(tags[i-1]), uint32(tags[i]))
	}
	assert.Nil(t, otf.Table(T("kern")))
	assert.Equal(t, T("cmap"), otf.Table(T("cmap")).Self().NameTag())
}

func TestTableOffset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	otf := parseScenario(t, ottest.Scenario())
	for _, tag := range otf.TableTags() {
		off, ok := otf.TableOffset(tag)
		require.True(t, ok, "table %s", tag)
		toff, size := otf.Table(tag).Extent()
		assert.Equal(t, toff, off)
		rec, _ := otf.TableRecord(tag)
		assert.Equal(t, size, rec.Length)
	}
	_, ok := otf.TableOffset(T("name"))
	assert.False(t, ok)
	_, ok = otf.TableOffset(T("zzzz"))
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	tables := ottest.Scenario().Tables()
	tables["head"][12] = 0 // destroy magic number
	_, err := Parse(ottest.Assemble(tables))
	assert.True(t, errors.Is(err, core.ErrInvalidFont), "bad magic: %v", err)
	//
	tables = ottest.Scenario().Tables()
	delete(tables, "loca")
	_, err = Parse(ottest.Assemble(tables))
	assert.True(t, errors.Is(err, core.ErrInvalidFont), "missing loca: %v", err)
	//
	data := ottest.Scenario().Build()
	_, err = Parse(data[:len(data)-20])
	assert.True(t, errors.Is(err, core.ErrOutOfRange), "truncated: %v", err)
	_, err = Parse(data[:8])
	assert.True(t, errors.Is(err, core.ErrOutOfRange), "header only: %v", err)
	//
	tables = ottest.Scenario().Tables()
	tables["cmap"] = []byte{
		0, 0, 0, 1, // version, numTables
		0, 3, 0, 1, 0, 0, 0, 12, // Windows BMP at offset 12
		0, 6, 0, 10, 0, 0, 0, 0x20, 0, 0, // format 6, no entries
	}
	_, err = Parse(ottest.Assemble(tables))
	assert.True(t, errors.Is(err, core.ErrUnsupportedFormat), "cmap format 6: %v", err)
	assert.Equal(t, core.EFORMAT, core.Code(err))
}

func TestReader(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01, 0x40, 0x00, 0xc0, 0x00, 0xff, 0xfe, 1, 2, 3, 4, 5, 6, 7, 8})
	n, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), n)
	f, _ := r.F2Dot14()
	assert.Equal(t, 1.0, f)
	f, _ = r.F2Dot14()
	assert.Equal(t, -1.0, f)
	i, _ := r.I16()
	assert.Equal(t, int16(-2), i)
	u, _ := r.U64()
	assert.Equal(t, uint64(0x0102030405060708), u)
	_, err = r.U8()
	assert.True(t, errors.Is(err, core.ErrOutOfRange))
	assert.Equal(t, 16, r.Pos(), "failed read must not move the cursor")
	assert.True(t, errors.Is(r.Seek(16), core.ErrOutOfRange))
	require.NoError(t, r.Seek(8))
	w, _ := r.U32()
	assert.Equal(t, uint32(0x01020304), w)
	assert.Error(t, r.Skip(5))
}

func TestCMapFormat4(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	for _, rangeOffset := range []bool{false, true} {
		b := ottest.New(1000)
		b.CMapRangeOffset = rangeOffset
		for i := 0; i < 60; i++ {
			b.AddGlyph(ottest.Glyph{Advance: 500})
		}
		for r := 'a'; r <= 'z'; r++ {
			b.Map(r, uint16(10+r-'a'))
		}
		b.Map('A', 50).Map('B', 40).Map('C', 41).Map('€', 59)
		otf := parseScenario(t, b)
		cmap := otf.CMap
		assert.Equal(t, 4, cmap.GlyphIndexMap.Format())
		for r := 'a'; r <= 'z'; r++ {
			gid, ok := cmap.Lookup(r)
			assert.True(t, ok)
			assert.Equal(t, GlyphIndex(10+r-'a'), gid, "rune %q (range offset=%v)", r, rangeOffset)
		}
		gid, _ := cmap.Lookup('A')
		assert.Equal(t, GlyphIndex(50), gid)
		gid, _ = cmap.Lookup('C')
		assert.Equal(t, GlyphIndex(41), gid)
		gid, _ = cmap.Lookup('€')
		assert.Equal(t, GlyphIndex(59), gid)
		_, ok := cmap.Lookup('!')
		assert.False(t, ok)
		_, ok = cmap.Lookup(0x1F600)
		assert.False(t, ok)
		assert.Equal(t, 'B', cmap.GlyphIndexMap.ReverseLookup(40))
	}
}

// linearLookup resolves a code-point by scanning all segments, without
// the binary search of Lookup.
func linearLookup(f4 format4GlyphIndex, c uint16) GlyphIndex {
	for h, entry := range f4.entries {
		if entry.start <= c && c <= entry.end {
			return f4.resolve(h, c)
		}
	}
	return 0
}

func TestCMapFormat4AgainstLinearScan(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	otf, err := Parse(goregular.TTF)
	require.NoError(t, err)
	f4, ok := otf.CMap.GlyphIndexMap.(format4GlyphIndex)
	require.True(t, ok, "expected Go Regular to use a format 4 cmap")
	for _, entry := range f4.entries {
		for c := int(entry.start); c <= int(entry.end) && c < 0xffff; c++ {
			if got, want := f4.Lookup(rune(c)), linearLookup(f4, uint16(c)); got != want {
				t.Fatalf("code-point %#x: binary search yields %d, linear scan %d", c, got, want)
			}
		}
	}
}

func TestCMapFormat0(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	b := ottest.Scenario()
	b.CMapFormat0 = true
	otf := parseScenario(t, b)
	assert.Equal(t, 0, otf.CMap.GlyphIndexMap.Format())
	gid, ok := otf.CMap.Lookup('i')
	assert.True(t, ok)
	assert.Equal(t, GlyphIndex(ottest.GlyphI), gid)
	_, ok = otf.CMap.Lookup(300)
	assert.False(t, ok)
	assert.Equal(t, 'a', otf.CMap.GlyphIndexMap.ReverseLookup(GlyphIndex(ottest.GlyphA)))
}

func TestHorizontalMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	b := ottest.New(1000)
	b.AddGlyph(ottest.Glyph{Advance: 600, LSB: 10})
	b.AddGlyph(ottest.Glyph{Advance: 400, LSB: 20})
	b.AddGlyph(ottest.Glyph{Advance: 400, LSB: 30})
	b.AddGlyph(ottest.Glyph{Advance: 400, LSB: -5})
	b.HMetrics = 2
	otf := parseScenario(t, b)
	assert.Equal(t, 2, otf.HMtx.NumberOfHMetrics)
	adv, lsb, err := otf.GlyphMetrics(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(600), adv)
	assert.Equal(t, int16(10), lsb)
	adv, lsb, _ = otf.GlyphMetrics(3)
	assert.Equal(t, uint16(400), adv)
	assert.Equal(t, int16(-5), lsb)
	_, _, err = otf.GlyphMetrics(4)
	assert.True(t, errors.Is(err, core.ErrOutOfRange))
}

func TestLoca(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	var sizes [2][]uint32
	for i, long := range []bool{false, true} {
		b := ottest.Scenario()
		b.AddGlyph(ottest.Glyph{Advance: 250}) // space
		b.LongLoca = long
		otf := parseScenario(t, b)
		assert.Equal(t, long, otf.Loca.IsLong())
		for gid := 0; gid < otf.NumGlyphs(); gid++ {
			_, size, err := otf.Loca.GlyphRange(GlyphIndex(gid))
			require.NoError(t, err)
			sizes[i] = append(sizes[i], size)
		}
		data, err := otf.GlyphData(5)
		require.NoError(t, err)
		assert.Empty(t, data)
		data, _ = otf.GlyphData(GlyphIndex(ottest.GlyphI))
		assert.Equal(t, []byte{0, 2}, data[:2], "expected 'i' to have 2 contours")
		_, err = otf.GlyphData(6)
		assert.True(t, errors.Is(err, core.ErrOutOfRange))
	}
	assert.Equal(t, sizes[0], sizes[1])
}

func TestGoRegularAgainstSfnt(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	otf, err := Parse(goregular.TTF)
	require.NoError(t, err)
	oracle, err := sfnt.Parse(goregular.TTF)
	require.NoError(t, err)
	assert.Equal(t, oracle.NumGlyphs(), otf.NumGlyphs())
	assert.Equal(t, oracle.UnitsPerEm(), sfnt.Units(otf.Head.UnitsPerEm))
	assert.Nil(t, otf.Layout.GSub)
	var buf sfnt.Buffer
	ppem := fixed.I(int(otf.Head.UnitsPerEm))
	for r := rune(0x20); r < 0x250; r++ {
		want, err := oracle.GlyphIndex(&buf, r)
		require.NoError(t, err)
		got, _ := otf.CMap.Lookup(r)
		require.Equal(t, uint16(want), uint16(got), "code-point %#x", r)
		if got == 0 {
			continue
		}
		adv, err := oracle.GlyphAdvance(&buf, want, ppem, font.HintingNone)
		require.NoError(t, err)
		myAdv, _, err := otf.GlyphMetrics(got)
		require.NoError(t, err)
		assert.Equal(t, adv, fixed.I(int(myAdv)), "advance of %q", r)
	}
}
