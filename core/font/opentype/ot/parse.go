package ot

import (
	"fmt"
	"sort"

	"github.com/npillmayer/glyphatlas/core"
)

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// Parse parses an OpenType font from a byte slice.
// An ot.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
//
// Parse fails with core.ErrInvalidFont for fonts with a bad 'head' magic number
// or missing required tables, with core.ErrOutOfRange if a table record points
// outside the font data, and with core.ErrUnsupportedFormat if the font has no
// cmap sub-table of a supported format.
func Parse(font []byte) (*Font, error) {
	src := binarySegm(font)
	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	hdr, err := src.view(0, 12)
	if err != nil {
		return nil, err
	}
	h := FontHeader{
		FontType:      u32(hdr),
		TableCount:    u16(hdr[4:]),
		SearchRange:   u16(hdr[6:]),
		EntrySelector: u16(hdr[8:]),
		RangeShift:    u16(hdr[10:]),
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	if !(h.FontType == 0x4f54544f || // OTTO
		h.FontType == 0x00010000 || // TrueType
		h.FontType == 0x74727565) { // true
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	otf := &Font{Header: &h, binary: src, tables: make(map[Tag]Table)}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	otf.directory, err = src.view(12, 16*int(h.TableCount))
	if err != nil {
		tracer().Errorf("table directory exceeds font data")
		return nil, err
	}
	for b, prevTag := otf.directory, Tag(0); len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		if tag <= prevTag && prevTag != 0 {
			return nil, errFontFormat("table order or duplicate table " + tag.String())
		}
		prevTag = tag
		off, size := u32(b[8:12]), u32(b[12:16])
		if off&3 != 0 { // ignore checksums, but "all tables must begin on four byte boundries".
			return nil, errFontFormat("invalid table offset")
		}
		data, err := src.view(int(off), int(size))
		if err != nil {
			tracer().Errorf("table %s exceeds font data", tag)
			return nil, err
		}
		otf.tables[tag], err = parseTable(tag, data, off, size)
		if err != nil {
			tracer().Errorf("error parsing table %s: %v", tag, err)
			return nil, err
		}
	}
	if err := linkTables(otf); err != nil {
		return nil, err
	}
	return otf, nil
}

// RequiredTables lists the tables a font must contain to be usable for
// shaping and outline extraction.
var RequiredTables = []string{
	"head", "hhea", "hmtx", "maxp", "cmap", "loca", "glyf",
}

// These are the OpenType tables for advanced layout we interpret. Both are optional.
var LayoutTables = []string{
	"GSUB", "GPOS",
}

// Consistency check and shortcuts to essential tables, including layout tables.
// Some tables need information from other tables to be interpreted:
// hmtx needs hhea and maxp, loca needs head and maxp.
func linkTables(otf *Font) error {
	for _, tag := range RequiredTables {
		if otf.tables[T(tag)] == nil {
			return errFontFormat("missing required table " + tag)
		}
	}
	otf.Head = otf.tables[T("head")].Self().AsHead()
	otf.HHea = otf.tables[T("hhea")].Self().AsHHea()
	otf.HMtx = otf.tables[T("hmtx")].Self().AsHMtx()
	otf.MaxP = otf.tables[T("maxp")].Self().AsMaxP()
	otf.Loca = otf.tables[T("loca")].Self().AsLoca()
	otf.Glyf = otf.tables[T("glyf")].Self().AsGlyf()
	otf.CMap = otf.tables[T("cmap")].Self().AsCMap()
	//
	// The number of glyphs in the font is restricted only by the value stated in
	// the 'maxp' table.
	numGlyphs := int(otf.MaxP.NumGlyphs)
	otf.HMtx.NumberOfHMetrics = int(otf.HHea.NumberOfHMetrics)
	otf.HMtx.NumGlyphs = numGlyphs
	if otf.HMtx.NumberOfHMetrics == 0 || otf.HMtx.NumberOfHMetrics > numGlyphs {
		return errFontFormat("hhea.numberOfHMetrics inconsistent with maxp")
	}
	if need := 4*otf.HMtx.NumberOfHMetrics + 2*(numGlyphs-otf.HMtx.NumberOfHMetrics); need > len(otf.HMtx.data) {
		return errRange("hmtx table", 0, need)
	}
	otf.Loca.longFormat = otf.Head.IndexToLocFormat == 1
	otf.Loca.locCnt = numGlyphs + 1
	entrySize := 2
	if otf.Loca.longFormat {
		entrySize = 4
	}
	if need := entrySize * otf.Loca.locCnt; need > len(otf.Loca.data) {
		return errRange("loca table", 0, need)
	}
	for _, tag := range LayoutTables {
		if otf.tables[T(tag)] == nil {
			tracer().Infof("font has no %s table", tag)
		}
	}
	if t := otf.tables[T("GSUB")]; t != nil {
		otf.Layout.GSub = t.Self().AsGSub()
	}
	if t := otf.tables[T("GPOS")]; t != nil {
		otf.Layout.GPos = t.Self().AsGPos()
	}
	return nil
}

func parseTable(t Tag, b binarySegm, offset, size uint32) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(t, b, offset, size)
	case T("head"):
		return parseHead(t, b, offset, size)
	case T("glyf"):
		return newGlyfTable(t, b, offset, size), nil
	case T("GPOS"):
		return parseGPos(t, b, offset, size)
	case T("GSUB"):
		return parseGSub(t, b, offset, size)
	case T("hhea"):
		return parseHHea(t, b, offset, size)
	case T("hmtx"):
		return newHMtxTable(t, b, offset, size), nil
	case T("loca"):
		return newLocaTable(t, b, offset, size), nil
	case T("maxp"):
		return parseMaxP(t, b, offset, size)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}

// --- Table directory -------------------------------------------------------

// TableRecord is an entry of the table directory.
type TableRecord struct {
	Tag      Tag
	Checksum uint32
	Offset   uint32
	Length   uint32
}

// TableOffset returns the byte offset of the table with the given tag, using a
// binary search over the sorted table directory. If the font does not contain
// the table, false is returned.
func (otf *Font) TableOffset(tag Tag) (uint32, bool) {
	rec, ok := otf.TableRecord(tag)
	return rec.Offset, ok
}

// TableRecord returns the directory entry for a table tag.
func (otf *Font) TableRecord(tag Tag) (TableRecord, bool) {
	n := len(otf.directory) / 16
	recordAt := func(i int) binarySegm {
		return otf.directory[16*i : 16*i+16]
	}
	i := sort.Search(n, func(i int) bool {
		return Tag(u32(recordAt(i))) >= tag
	})
	if i < n {
		if rec := recordAt(i); Tag(u32(rec)) == tag {
			return TableRecord{
				Tag:      tag,
				Checksum: u32(rec[4:]),
				Offset:   u32(rec[8:]),
				Length:   u32(rec[12:]),
			}, true
		}
	}
	return TableRecord{}, false
}

// --- Head table ------------------------------------------------------------

// headMagic is the fixed 'magicNumber' field of table head.
const headMagic = 0x5F0F3CF5

// HeadTable gives global information about the font.
type HeadTable struct {
	tableBase
	Flags            uint16
	UnitsPerEm       uint16
	XMin, YMin       int16 // bounding box for all glyphs
	XMax, YMax       int16
	IndexToLocFormat int16 // needed to interpret loca table: 0 for short offsets, 1 for long
}

func parseHead(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 54 {
		return nil, errRange("head table", 0, int(size))
	}
	if magic, _ := b.u32(12); magic != headMagic {
		tracer().Errorf("head table has magic number %x", magic)
		return nil, core.Error(core.EINVALID, "OpenType font format: bad magic number %x in head table", magic)
	}
	t := &HeadTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.Flags, _ = b.u16(16)      // flags
	t.UnitsPerEm, _ = b.u16(18) // units per em
	t.XMin, _ = b.i16(36)
	t.YMin, _ = b.i16(38)
	t.XMax, _ = b.i16(40)
	t.YMax, _ = b.i16(42)
	t.IndexToLocFormat, _ = b.i16(50)
	if t.UnitsPerEm == 0 {
		return nil, errFontFormat("head.unitsPerEm is 0")
	}
	return t, nil
}

// --- HHea table ------------------------------------------------------------

// HHeaTable contains information for horizontal layout.
type HHeaTable struct {
	tableBase
	Ascender         int16
	Descender        int16
	LineGap          int16
	AdvanceWidthMax  uint16
	NumberOfHMetrics uint16
}

func parseHHea(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 36 {
		return nil, errRange("hhea table", 0, int(size))
	}
	t := &HHeaTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.Ascender, _ = b.i16(4)
	t.Descender, _ = b.i16(6)
	t.LineGap, _ = b.i16(8)
	t.AdvanceWidthMax, _ = b.u16(10)
	t.NumberOfHMetrics, _ = b.u16(34)
	return t, nil
}

// --- HMtx table ------------------------------------------------------------

// HMtxTable contains metric information for the horizontal layout each of the
// glyphs in the font. It starts with an array of NumberOfHMetrics long records
// (advance width and left side bearing), followed by left side bearings for
// the remaining glyphs. These glyphs share the advance width of the last long record.
type HMtxTable struct {
	tableBase
	NumberOfHMetrics int
	NumGlyphs        int
}

func newHMtxTable(tag Tag, b binarySegm, offset, size uint32) *HMtxTable {
	t := &HMtxTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// Metrics returns the advance width and the left side bearing of a glyph.
func (t *HMtxTable) Metrics(gid GlyphIndex) (advance uint16, lsb int16, err error) {
	g := int(gid)
	if g >= t.NumGlyphs {
		return 0, 0, errRange("glyph index", g, t.NumGlyphs)
	}
	if g < t.NumberOfHMetrics {
		if advance, err = t.data.u16(4 * g); err == nil {
			lsb, err = t.data.i16(4*g + 2)
		}
		return
	}
	// advance repetition of last advance in hmtx
	if advance, err = t.data.u16(4 * (t.NumberOfHMetrics - 1)); err == nil {
		lsb, err = t.data.i16(4*t.NumberOfHMetrics + 2*(g-t.NumberOfHMetrics))
	}
	return
}

// --- MaxP table ------------------------------------------------------------

// MaxPTable establishes the memory requirements for this font.
// We only use the number of glyphs.
type MaxPTable struct {
	tableBase
	NumGlyphs uint16
}

func parseMaxP(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errRange("maxp table", 0, int(size))
	}
	t := &MaxPTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.NumGlyphs, _ = b.u16(4)
	return t, nil
}

// --- Loca and glyf tables --------------------------------------------------

// LocaTable stores the offsets to the locations of the glyphs in the font,
// relative to the beginning of the glyph data table.
// Its format (short or long offsets) is flagged by head.IndexToLocFormat.
type LocaTable struct {
	tableBase
	longFormat bool
	locCnt     int // number of entries, i.e. number of glyphs + 1
}

func newLocaTable(tag Tag, b binarySegm, offset, size uint32) *LocaTable {
	t := &LocaTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// IsLong is true if loca uses 32 bit offsets.
func (t *LocaTable) IsLong() bool {
	return t.longFormat
}

func (t *LocaTable) location(i int) (uint32, error) {
	if t.longFormat {
		return t.data.u32(4 * i)
	}
	n, err := t.data.u16(2 * i)
	return 2 * uint32(n), err // short version stores offset/2
}

// GlyphRange returns byte offset and size of a glyph's data within the glyf table.
// Glyphs without an outline (e.g., 'space') have size 0.
func (t *LocaTable) GlyphRange(gid GlyphIndex) (uint32, uint32, error) {
	if int(gid)+1 >= t.locCnt {
		return 0, 0, errRange("glyph index", int(gid), t.locCnt-1)
	}
	from, err := t.location(int(gid))
	if err != nil {
		return 0, 0, err
	}
	to, err := t.location(int(gid) + 1)
	if err != nil {
		return 0, 0, err
	}
	if to < from {
		return 0, 0, errFontFormat(fmt.Sprintf("loca entries for glyph %d not ascending", gid))
	}
	return from, to - from, nil
}

// GlyfTable holds the TrueType outline data of all glyphs.
type GlyfTable struct {
	tableBase
}

func newGlyfTable(tag Tag, b binarySegm, offset, size uint32) *GlyfTable {
	t := &GlyfTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// GlyphData returns the bytes of the outline description of a glyph. The
// result is a view into the font's data and must not be modified.
func (otf *Font) GlyphData(gid GlyphIndex) ([]byte, error) {
	off, size, err := otf.Loca.GlyphRange(gid)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return []byte{}, nil
	}
	data, err := otf.Glyf.data.view(int(off), int(size))
	if err != nil {
		tracer().Errorf("glyph %d exceeds glyf table", gid)
		return nil, err
	}
	return data, nil
}

// GlyphMetrics returns advance width and left side bearing of a glyph.
func (otf *Font) GlyphMetrics(gid GlyphIndex) (uint16, int16, error) {
	return otf.HMtx.Metrics(gid)
}
