/*
Package ottest assembles small TrueType fonts in memory, for testing the
OpenType packages of this module.

A Builder collects glyphs, a character map, ligatures and kerning pairs and
encodes them into the binary tables head, hhea, hmtx, maxp, cmap, loca, glyf,
GSUB and GPOS. The resulting fonts are well-formed enough to be parsed by
golang.org/x/image/font/sfnt as well, with the exception of the optional tables
we never write (name, OS/2, post).

Package ottest must not depend on package ot, so that tests of ot may use it.
*/
package ottest

import (
	"encoding/binary"
	"math"
	"sort"
)

// Point is a point of a glyph contour, in font units.
type Point struct {
	X, Y    int16
	OnCurve bool
}

// On is a shortcut for an on-curve point.
func On(x, y int16) Point { return Point{X: x, Y: y, OnCurve: true} }

// Off is a shortcut for an off-curve point.
func Off(x, y int16) Point { return Point{X: x, Y: y} }

// Rect returns a closed rectangular contour, running clockwise.
func Rect(x0, y0, x1, y1 int16) []Point {
	return []Point{On(x0, y0), On(x0, y1), On(x1, y1), On(x1, y0)}
}

// Component is a reference to another glyph within a composite glyph.
//
// If Anchor is set, DX is a point number of the parent glyph and DY is a point
// number of the component, and the two points are matched. Otherwise DX and DY
// are an offset in font units.
// Transform holds 0, 1 (uniform scale), 2 (x- and y-scale) or 4 (2×2 matrix)
// values.
type Component struct {
	Glyph     uint16
	DX, DY    int16
	Anchor    bool
	Transform []float64
	Unscaled  bool // set flag UNSCALED_COMPONENT_OFFSET
}

// Glyph describes a glyph. A glyph has either contours or components, or none
// of both (e.g., 'space').
type Glyph struct {
	Advance    uint16
	LSB        int16
	Contours   [][]Point
	Components []Component
	Bounds     *[4]int16 // explicit bounding box (xMin, yMin, xMax, yMax) for composites
}

// Builder assembles a font. The zero value is not usable, call New.
type Builder struct {
	UnitsPerEm       uint16
	Ascender         int16
	Descender        int16
	LongLoca         bool // use 32-bit loca offsets
	HMetrics         int  // number of long horizontal metrics; 0 means one per glyph
	CMapRangeOffset  bool // encode cmap format 4 segments with idRangeOffset
	CMapFormat0      bool // write a Mac Roman format 0 cmap instead of format 4
	CoverageFormat2  bool // write coverage tables as ranges
	ClassDefFormat2  bool // write class definitions as ranges
	ExtensionLookups bool // wrap layout lookups into extension lookups

	glyphs     []Glyph
	cmap       map[rune]uint16
	ligatures  []ligature
	pairs      []pair
	classKerns []classKerning
	singles    []single
	unsupSubst []uint16
	unsupPos   []uint16
}

type ligature struct {
	glyph      uint16
	components []uint16
}

type pair struct {
	first, second uint16
	xAdvance      int16
}

type single struct {
	glyph    uint16
	xAdvance int16
}

type classKerning struct {
	class1, class2 map[uint16]uint16
	values         [][]int16 // [class1][class2]
}

// New creates a builder for a font with a given design grid.
func New(unitsPerEm uint16) *Builder {
	return &Builder{
		UnitsPerEm: unitsPerEm,
		Ascender:   int16(unitsPerEm) * 4 / 5,
		Descender:  -int16(unitsPerEm) / 5,
		cmap:       make(map[rune]uint16),
	}
}

// AddGlyph appends a glyph and returns its glyph index.
func (b *Builder) AddGlyph(g Glyph) uint16 {
	b.glyphs = append(b.glyphs, g)
	return uint16(len(b.glyphs) - 1)
}

// Map maps a code-point to a glyph.
func (b *Builder) Map(r rune, gid uint16) *Builder {
	b.cmap[r] = gid
	return b
}

// Ligature registers a ligature substitution (GSUB lookup type 4, feature 'liga').
func (b *Builder) Ligature(lig uint16, components ...uint16) *Builder {
	b.ligatures = append(b.ligatures, ligature{glyph: lig, components: components})
	return b
}

// Kern registers an explicit kerning pair (GPOS lookup type 2, format 1,
// feature 'kern').
func (b *Builder) Kern(first, second uint16, xAdvance int16) *Builder {
	b.pairs = append(b.pairs, pair{first: first, second: second, xAdvance: xAdvance})
	return b
}

// KernClasses registers class based kerning (GPOS lookup type 2, format 2).
// values is indexed by [class of first glyph][class of second glyph].
// Glyphs not mentioned in class2 are of class 0.
func (b *Builder) KernClasses(class1, class2 map[uint16]uint16, values [][]int16) *Builder {
	b.classKerns = append(b.classKerns, classKerning{class1: class1, class2: class2, values: values})
	return b
}

// Adjust registers a single adjustment of a glyph's advance (GPOS lookup type 1).
func (b *Builder) Adjust(glyph uint16, xAdvance int16) *Builder {
	b.singles = append(b.singles, single{glyph: glyph, xAdvance: xAdvance})
	return b
}

// UnsupportedSubstitution appends a lookup of the given type to feature 'liga'.
// The lookup has a sub-table stub only.
func (b *Builder) UnsupportedSubstitution(lookupType uint16) *Builder {
	b.unsupSubst = append(b.unsupSubst, lookupType)
	return b
}

// UnsupportedPositioning appends a lookup of the given type to feature 'kern'.
func (b *Builder) UnsupportedPositioning(lookupType uint16) *Builder {
	b.unsupPos = append(b.unsupPos, lookupType)
	return b
}

// Build encodes the font.
func (b *Builder) Build() []byte {
	return Assemble(b.Tables())
}

// Tables encodes every table of the font, keyed by tag. Tests may modify the
// result before handing it to Assemble.
func (b *Builder) Tables() map[string][]byte {
	glyf, loca, bbox := b.glyfTable()
	tables := map[string][]byte{
		"head": b.headTable(bbox),
		"hhea": b.hheaTable(),
		"hmtx": b.hmtxTable(),
		"maxp": b.maxpTable(),
		"cmap": b.cmapTable(),
		"loca": loca,
		"glyf": glyf,
	}
	if len(b.ligatures) > 0 || len(b.unsupSubst) > 0 {
		tables["GSUB"] = b.gsubTable()
	}
	if len(b.pairs)+len(b.classKerns)+len(b.singles)+len(b.unsupPos) > 0 {
		tables["GPOS"] = b.gposTable()
	}
	return tables
}

// Assemble writes a table directory and the tables.
// Tables are sorted by tag and aligned to 4 bytes.
func Assemble(tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	n := len(tags)
	w := &writer{}
	w.u32(0x00010000)
	w.u16(uint16(n))
	entrySelector := 0
	for 1<<(entrySelector+1) <= n {
		entrySelector++
	}
	searchRange := 16 << entrySelector
	w.u16(uint16(searchRange))
	w.u16(uint16(entrySelector))
	w.u16(uint16(16*n - searchRange))
	offset := 12 + 16*n
	for _, tag := range tags {
		data := tables[tag]
		w.tag(tag)
		w.u32(checksum(data))
		w.u32(uint32(offset))
		w.u32(uint32(len(data)))
		offset += (len(data) + 3) &^ 3
	}
	for _, tag := range tags {
		w.bytes(tables[tag])
		w.pad(4)
	}
	return w.b
}

func checksum(data []byte) uint32 {
	var sum uint32
	for i := 0; i < len(data); i += 4 {
		var word [4]byte
		copy(word[:], data[i:])
		sum += binary.BigEndian.Uint32(word[:])
	}
	return sum
}

// --- Writer ----------------------------------------------------------------

type writer struct {
	b []byte
}

func (w *writer) u16(v uint16) { w.b = binary.BigEndian.AppendUint16(w.b, v) }
func (w *writer) i16(v int16)  { w.u16(uint16(v)) }
func (w *writer) u32(v uint32) { w.b = binary.BigEndian.AppendUint32(w.b, v) }
func (w *writer) tag(t string) { w.b = append(w.b, []byte((t + "    ")[:4])...) }
func (w *writer) bytes(p []byte) {
	w.b = append(w.b, p...)
}
func (w *writer) len() int { return len(w.b) }

func (w *writer) pad(n int) {
	for len(w.b)%n != 0 {
		w.b = append(w.b, 0)
	}
}

// patch overwrites a 16-bit value at a position already written.
func (w *writer) patch(at int, v uint16) {
	binary.BigEndian.PutUint16(w.b[at:], v)
}

func f2dot14(v float64) uint16 {
	return uint16(int16(math.Round(v * 16384)))
}

// --- Global tables ---------------------------------------------------------

func (b *Builder) headTable(bbox [4]int16) []byte {
	w := &writer{}
	w.u32(0x00010000) // version
	w.u32(0x00010000) // fontRevision
	w.u32(0)          // checksumAdjustment
	w.u32(0x5F0F3CF5) // magicNumber
	w.u16(0)          // flags
	w.u16(b.UnitsPerEm)
	w.u32(0) // created
	w.u32(0)
	w.u32(0) // modified
	w.u32(0)
	for _, v := range bbox {
		w.i16(v)
	}
	w.u16(0) // macStyle
	w.u16(8) // lowestRecPPEM
	w.i16(2) // fontDirectionHint
	if b.LongLoca {
		w.i16(1)
	} else {
		w.i16(0)
	}
	w.i16(0) // glyphDataFormat
	return w.b
}

func (b *Builder) numHMetrics() int {
	if b.HMetrics <= 0 || b.HMetrics > len(b.glyphs) {
		return len(b.glyphs)
	}
	return b.HMetrics
}

func (b *Builder) hheaTable() []byte {
	var maxAdvance uint16
	for _, g := range b.glyphs {
		if g.Advance > maxAdvance {
			maxAdvance = g.Advance
		}
	}
	w := &writer{}
	w.u32(0x00010000)
	w.i16(b.Ascender)
	w.i16(b.Descender)
	w.i16(0) // lineGap
	w.u16(maxAdvance)
	w.i16(0) // minLeftSideBearing
	w.i16(0) // minRightSideBearing
	w.i16(0) // xMaxExtent
	w.i16(1) // caretSlopeRise
	w.i16(0) // caretSlopeRun
	w.i16(0) // caretOffset
	for i := 0; i < 4; i++ {
		w.i16(0) // reserved
	}
	w.i16(0) // metricDataFormat
	w.u16(uint16(b.numHMetrics()))
	return w.b
}

func (b *Builder) hmtxTable() []byte {
	w := &writer{}
	n := b.numHMetrics()
	for i, g := range b.glyphs {
		if i < n {
			w.u16(g.Advance)
		}
		w.i16(g.LSB)
	}
	return w.b
}

func (b *Builder) maxpTable() []byte {
	w := &writer{}
	w.u32(0x00005000)
	w.u16(uint16(len(b.glyphs)))
	return w.b
}

// --- cmap ------------------------------------------------------------------

func (b *Builder) cmapTable() []byte {
	w := &writer{}
	w.u16(0) // version
	w.u16(1) // numTables
	if b.CMapFormat0 {
		w.u16(1) // Macintosh
		w.u16(0) // Roman
		w.u32(12)
		w.u16(0)   // format
		w.u16(262) // length
		w.u16(0)   // language
		glyphs := make([]byte, 256)
		for r, gid := range b.cmap {
			if r >= 0 && r < 256 {
				glyphs[r] = byte(gid)
			}
		}
		w.bytes(glyphs)
		return w.b
	}
	w.u16(3) // Windows
	w.u16(1) // Unicode BMP
	w.u32(12)
	w.bytes(b.cmapFormat4())
	return w.b
}

type segment struct {
	start, end rune
}

func (b *Builder) cmapFormat4() []byte {
	runes := make([]rune, 0, len(b.cmap))
	for r := range b.cmap {
		if r >= 0 && r < 0xffff {
			runes = append(runes, r)
		}
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	var segs []segment
	for _, r := range runes {
		if k := len(segs) - 1; k >= 0 && segs[k].end == r-1 &&
			(b.CMapRangeOffset || int(b.cmap[r])-int(r) == int(b.cmap[segs[k].start])-int(segs[k].start)) {
			segs[k].end = r
			continue
		}
		segs = append(segs, segment{start: r, end: r})
	}
	segs = append(segs, segment{start: 0xffff, end: 0xffff})
	n := len(segs)
	var glyphIds []uint16
	deltas := make([]uint16, n)
	offsets := make([]uint16, n)
	for i, s := range segs {
		if i == n-1 {
			deltas[i] = 1
			continue
		}
		if b.CMapRangeOffset {
			offsets[i] = uint16(2*(n-i) + 2*len(glyphIds))
			for r := s.start; r <= s.end; r++ {
				glyphIds = append(glyphIds, b.cmap[r])
			}
			continue
		}
		deltas[i] = uint16(int(b.cmap[s.start]) - int(s.start))
	}
	w := &writer{}
	w.u16(4)
	w.u16(uint16(16 + 8*n + 2*len(glyphIds))) // length
	w.u16(0)                                  // language
	w.u16(uint16(2 * n))
	entrySelector := 0
	for 1<<(entrySelector+1) <= n {
		entrySelector++
	}
	w.u16(uint16(2 << entrySelector))
	w.u16(uint16(entrySelector))
	w.u16(uint16(2*n - 2<<entrySelector))
	for _, s := range segs {
		w.u16(uint16(s.end))
	}
	w.u16(0) // reservedPad
	for _, s := range segs {
		w.u16(uint16(s.start))
	}
	for _, d := range deltas {
		w.u16(d)
	}
	for _, o := range offsets {
		w.u16(o)
	}
	for _, g := range glyphIds {
		w.u16(g)
	}
	return w.b
}
