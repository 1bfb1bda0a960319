package ot

/*
Parts of the format 4 handling follow the code of the Go core team, available from
https://github.com/golang/image/tree/master/font/sfnt.

   Copyright 2017 The Go Authors. All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

import (
	"sort"
)

// CMapTable represents an OpenType cmap table, i.e. the table to receive glyphs
// from code-points.
//
// See https://docs.microsoft.com/de-de/typography/opentype/spec/cmap
//
// Consulting the cmap table is a very frequent operation on fonts. We therefore
// construct an internal representation of the lookup table. A cmap table may contain
// more than one lookup table, but we will only instantiate the most appropriate one.
// Clients who need access to other lookup tables may call Subtable.
type CMapTable struct {
	tableBase
	GlyphIndexMap CMapGlyphIndex
	Records       []EncodingRecord
}

// EncodingRecord is an entry of the cmap table's list of sub-tables.
type EncodingRecord struct {
	PlatformID uint16
	EncodingID uint16
	Offset     uint32 // from beginning of the cmap table
	Format     uint16 // format of the sub-table the record links to
}

// The various cmap formats are described at
// https://www.microsoft.com/typography/otspec/cmap.htm
//
// We only support the formats needed for BMP text:
//
//	0 (Unicode)  any   4   Unicode BMP
//	3 (Win)      1     4   Unicode BMP
//	1 (Mac)      0     0   Mac Roman, byte encoding
//
// Any other format is reported as unsupported. Format 0 sub-tables of other
// platforms are accepted as a last resort.
func cmapPreference(rec EncodingRecord) int {
	switch {
	case rec.PlatformID == 0 && rec.EncodingID != 5 && rec.Format == 4:
		return 4
	case rec.PlatformID == 3 && rec.EncodingID == 1 && rec.Format == 4:
		return 3
	case rec.PlatformID == 1 && rec.EncodingID == 0 && rec.Format == 0:
		return 2
	case rec.Format == 0 || rec.Format == 4:
		return 1
	}
	return 0
}

func parseCMap(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	t := &CMapTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	n, err := b.u16(2)
	if err != nil {
		return nil, err
	}
	records, err := b.view(4, 8*int(n))
	if err != nil {
		return nil, err
	}
	best, bestRank := -1, 0
	for i := 0; i < int(n); i++ {
		rec := EncodingRecord{
			PlatformID: u16(records[8*i:]),
			EncodingID: u16(records[8*i+2:]),
			Offset:     u32(records[8*i+4:]),
		}
		if rec.Format, err = b.u16(int(rec.Offset)); err != nil {
			return nil, err
		}
		tracer().Debugf("cmap sub-table (%d | %d | format %d)", rec.PlatformID, rec.EncodingID, rec.Format)
		t.Records = append(t.Records, rec)
		if rank := cmapPreference(rec); rank > bestRank {
			best, bestRank = i, rank
		}
	}
	if best < 0 {
		format := 0
		if len(t.Records) > 0 {
			format = int(t.Records[0].Format)
		}
		tracer().Errorf("font has no supported cmap sub-table")
		return nil, errUnsupported("cmap", format)
	}
	if t.GlyphIndexMap, err = t.Subtable(t.Records[best]); err != nil {
		return nil, err
	}
	return t, nil
}

// Subtable creates a glyph index from the cmap sub-table an encoding record
// links to. Formats other than 0 and 4 fail with core.ErrUnsupportedFormat.
func (t *CMapTable) Subtable(rec EncodingRecord) (CMapGlyphIndex, error) {
	sub, err := t.data.rest(int(rec.Offset))
	if err != nil {
		return nil, err
	}
	format, err := sub.u16(0)
	if err != nil {
		return nil, err
	}
	switch format {
	case 0:
		return makeGlyphIndexFormat0(sub)
	case 4:
		return makeGlyphIndexFormat4(sub)
	}
	return nil, errUnsupported("cmap", int(format))
}

// Lookup returns the glyph for a code-point. If the font has no glyph
// for r, false is returned.
func (t *CMapTable) Lookup(r rune) (GlyphIndex, bool) {
	gid := t.GlyphIndexMap.Lookup(r)
	return gid, gid != 0
}

// CMapGlyphIndex represents a CMap table index to receive a glyph index from
// a code-point.
type CMapGlyphIndex interface {
	Lookup(rune) GlyphIndex        // central activiy of CMap, 0 for missing glyphs
	ReverseLookup(GlyphIndex) rune // this is non-standard, but helps with tests
	Format() int                   // cmap sub-table format
}

// --- Format 0 --------------------------------------------------------------

// Format 0: Byte encoding table. This is a simple 1 to 1 mapping of character
// codes 0…255 to glyph index values.
type format0GlyphIndex struct {
	glyphs binarySegm // 256 entries
}

func makeGlyphIndexFormat0(b binarySegm) (CMapGlyphIndex, error) {
	glyphs, err := b.view(6, 256)
	if err != nil {
		return nil, err
	}
	return format0GlyphIndex{glyphs: glyphs}, nil
}

func (f0 format0GlyphIndex) Lookup(r rune) GlyphIndex {
	if r < 0 || r > 255 {
		return 0
	}
	return GlyphIndex(f0.glyphs[r])
}

func (f0 format0GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	for c, g := range f0.glyphs {
		if GlyphIndex(g) == gid {
			return rune(c)
		}
	}
	return 0
}

func (f0 format0GlyphIndex) Format() int {
	return 0
}

// --- Format 4 --------------------------------------------------------------

// Format 4: Segment mapping to delta values
// This is the standard character-to-glyph-index mapping subtable for fonts that support
// only Unicode Basic Multilingual Plane characters (U+0000 to U+FFFF).
//
// This format is used when the character codes for the characters represented by a font
// fall into several contiguous ranges, possibly with holes in some or all of the ranges
// (that is, some of the codes in a range may not have a representation in the font).
type format4GlyphIndex struct {
	entries  []cmapEntry16
	glyphIds binarySegm
}

// Format 4 holds four parallel arrays to describe the segments (one segment for
// each contiguous range of codes).
// see https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-4-segment-mapping-to-delta-values
type cmapEntry16 struct {
	end, start, delta, offset uint16
}

func (f4 format4GlyphIndex) Format() int {
	return 4
}

// Lookup searches the ascending endCode array for the first segment with an
// end code ≥ r, then checks the segment's start code.
func (f4 format4GlyphIndex) Lookup(r rune) GlyphIndex {
	if r < 0 || r > 0xffff { // format 4 is for BMP code-points only
		return 0 // return index for 'missing character'
	}
	c := uint16(r)
	N := len(f4.entries)
	h := sort.Search(N, func(i int) bool {
		return f4.entries[i].end >= c
	})
	if h == N || f4.entries[h].start > c {
		return 0
	}
	return f4.resolve(h, c)
}

// resolve maps c to a glyph within segment h, which has been checked to contain c.
func (f4 format4GlyphIndex) resolve(h int, c uint16) GlyphIndex {
	entry := &f4.entries[h]
	if entry.offset == 0 {
		return GlyphIndex(c + entry.delta) // modulo 65536
	}
	// The spec describes the calculation to find the link into the glyph ID array
	// as an offset from the current location within idRangeOffset itself.
	// We already sliced the cmap into sub-segments, so we calculate a clean index
	// into the glyph ID array instead, by cutting off the part of the offset
	// which results from skipping over to the start of the glyph ID array.
	deltaToEndOfEntries := (len(f4.entries) - h) * 2 // 2 = byte size of offset array entry
	offset := int(entry.offset) - deltaToEndOfEntries
	index := offset/2 + int(c-entry.start)
	glyphInx, err := f4.glyphIds.u16(2 * index)
	if err != nil {
		tracer().Debugf("cmap format 4: glyph ID array index %d out of range", index)
		return 0
	}
	if glyphInx > 0 {
		// If the value obtained from the indexing operation is not 0 (which indicates
		// missingGlyph), idDelta[i] is added to it to get the glyph index
		glyphInx += entry.delta
	}
	return GlyphIndex(glyphInx)
}

// ReverseLookup retrieves a code-point for a given glyph. The Cmap tables do not
// support this operation, thus this operation is inefficient.
// However, for testing and debugging purposes it is often useful.
func (f4 format4GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	for h, entry := range f4.entries {
		if entry.end < entry.start || entry.start == 0xffff {
			break
		}
		for c := int(entry.start); c <= int(entry.end); c++ {
			if f4.resolve(h, uint16(c)) == gid {
				return rune(c)
			}
		}
	}
	return 0
}

// The format's data is divided into three parts, which must occur in the following order:
//
// - A four-word header gives parameters for an optimized search of the segment list;
// - Four parallel arrays describe the segments (one segment for each contiguous range of codes);
// - A variable-length array of glyph IDs (unsigned words).
func makeGlyphIndexFormat4(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 14
	size, err := b.u16(2)
	if err != nil {
		return nil, err
	}
	if b, err = b.view(0, int(size)); err != nil {
		return nil, err
	}
	segCount, err := b.u16(6)
	if err != nil {
		return nil, err
	}
	if segCount&1 != 0 {
		tracer().Debugf("cmap format 4 segment count is %d", segCount)
		return nil, errFontFormat("cmap table format, illegal segment count")
	}
	segCount /= 2
	n := int(segCount)
	arrays, err := b.view(headerSize, 8*n+2) // 2 is a padding entry in the cmap table
	if err != nil {
		return nil, err
	}
	endCodes := arrays[:2*n]
	startCodes := arrays[2*n+2 : 4*n+2]
	deltas := arrays[4*n+2 : 6*n+2]
	offsets := arrays[6*n+2 : 8*n+2]
	entries := make([]cmapEntry16, n)
	for i := range entries {
		entries[i] = cmapEntry16{
			end:    u16(endCodes[2*i:]),
			start:  u16(startCodes[2*i:]),
			delta:  u16(deltas[2*i:]),
			offset: u16(offsets[2*i:]),
		}
		if i > 0 && entries[i].end < entries[i-1].end {
			return nil, errFontFormat("cmap format 4 end codes not ascending")
		}
	}
	glyphTable := b[headerSize+8*n+2:]
	tracer().Debugf("cmap format 4 has %d segments", n)
	return format4GlyphIndex{
		entries:  entries,
		glyphIds: glyphTable,
	}, nil
}
