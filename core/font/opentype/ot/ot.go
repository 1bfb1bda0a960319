package ot

import (
	"sort"
)

// Font represents the internal structure of a TrueType/OpenType font.
// It is used to navigate properties of a font for shaping and rasterizing.
//
// A Font is read-only after Parse returns and may be shared between goroutines.
// The required tables are available as typed shortcuts; the layout tables
// GSUB and GPOS are optional and may be nil.
type Font struct {
	Header    *FontHeader
	binary    binarySegm
	directory binarySegm // table records, sorted by tag
	tables    map[Tag]Table
	Head      *HeadTable
	HHea      *HHeaTable
	HMtx      *HMtxTable
	MaxP      *MaxPTable
	Loca      *LocaTable
	Glyf      *GlyfTable
	CMap      *CMapTable
	Layout    struct { // OpenType core layout tables
		GSub *GSubTable // OpenType layout GSUB, optional
		GPos *GPosTable // OpenType layout GPOS, optional
	}
}

// FontHeader is the offset table at the start of a font file, which is followed
// by the directory of the top-level tables.
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for the FontType. OpenType fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
type FontHeader struct {
	FontType      uint32
	TableCount    uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// Binary returns the complete binary data of the font. Clients should treat it
// as read-only.
func (otf *Font) Binary() []byte {
	return otf.binary
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Tables not interpreted by this package are returned as generic tables, i.e.
// no table information will be dropped. For example, to receive the `OS/2` and
// the `loca` table, clients may call
//
//	os2  := otf.Table(ot.T("OS/2"))
//	loca := otf.Table(ot.T("loca")).Self().AsLoca()
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font,
// in directory order.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// NumGlyphs returns the number of glyphs in the font, as stated by table maxp.
func (otf *Font) NumGlyphs() int {
	return int(otf.MaxP.NumGlyphs)
}

// GlyphIndex is a glyph index in a font. Glyph indices are stable within one
// font, but have no meaning across fonts.
type GlyphIndex uint16

// NoGlyph is used to signal the absence of a glyph, e.g. the missing successor
// of the last glyph in a run. It is not a valid index in any font.
const NoGlyph GlyphIndex = 0xffff

// --- Tag -------------------------------------------------------------------

// Tag is defined by the spec as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// DFLT is the tag of the default script.
var DFLT = T("DFLT")

// --- Table -----------------------------------------------------------------

// Table represents one of the various OpenType font tables.
//
// Tables interpreted by this package:
// 'cmap' (Character to glyph mapping), 'head' (Font header), 'hhea' (Horizontal header),
// 'hmtx' (Horizontal metrics), 'maxp' (Maximum profile), 'loca' (Index to location),
// 'glyf' (Glyph data), 'GSUB' (Glyph substitution data), 'GPOS' (Glyph positioning data).
//
// Currently not used/supported:
// CFF outlines, SVG font table, bitmap glyph tables, color font tables, font variations.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treatet as read-only by clients
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	},
	}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
	self   interface{}
}

func makeTableBase(tag Tag, b binarySegm, offset, size uint32) tableBase {
	return tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
}

// Extent returns offset and byte size of this table within the OpenType font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. Should be treatet as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	if tself.tableBase == nil {
		return 0
	}
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) interface{} {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return TableSelf{}
	}
	return tself.tableBase.self
}

// AsCMap returns this table as a cmap table, or nil.
func (tself TableSelf) AsCMap() *CMapTable {
	if k, ok := safeSelf(tself).(*CMapTable); ok {
		return k
	}
	return nil
}

// AsGPos returns this table as a GPOS table, or nil.
func (tself TableSelf) AsGPos() *GPosTable {
	if g, ok := safeSelf(tself).(*GPosTable); ok {
		return g
	}
	return nil
}

// AsGSub returns this table as a GSUB table, or nil.
func (tself TableSelf) AsGSub() *GSubTable {
	if g, ok := safeSelf(tself).(*GSubTable); ok {
		return g
	}
	return nil
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	if h, ok := safeSelf(tself).(*HeadTable); ok {
		return h
	}
	return nil
}

// AsHHea returns this table as a hhea table, or nil.
func (tself TableSelf) AsHHea() *HHeaTable {
	if h, ok := safeSelf(tself).(*HHeaTable); ok {
		return h
	}
	return nil
}

// AsHMtx returns this table as a hmtx table, or nil.
func (tself TableSelf) AsHMtx() *HMtxTable {
	if h, ok := safeSelf(tself).(*HMtxTable); ok {
		return h
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if m, ok := safeSelf(tself).(*MaxPTable); ok {
		return m
	}
	return nil
}

// AsLoca returns this table as a loca table, or nil.
func (tself TableSelf) AsLoca() *LocaTable {
	if l, ok := safeSelf(tself).(*LocaTable); ok {
		return l
	}
	return nil
}

// AsGlyf returns this table as a glyf table, or nil.
func (tself TableSelf) AsGlyf() *GlyfTable {
	if g, ok := safeSelf(tself).(*GlyfTable); ok {
		return g
	}
	return nil
}
