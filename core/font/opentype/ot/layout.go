package ot

/*
From https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2:

OpenType Layout consists of five tables: the Glyph Substitution table (GSUB),
the Glyph Positioning table (GPOS), the Baseline table (BASE),
the Justification table (JSTF), and the Glyph Definition table (GDEF).
These tables use some of the same data formats.

We interpret GSUB and GPOS only. All offsets handed out by the navigation
functions below are byte offsets from the beginning of the layout table.
*/

import (
	"sort"
)

// --- Layout tables ---------------------------------------------------------

// LayoutTable is a base type for layout tables.
// OpenType specifies two such tables–GPOS and GSUB–which share some of their
// structure:
//
//	ScriptList ─▶ Script ─▶ LangSys ─┐
//	                                 │ feature indices
//	FeatureList ─▶ Feature ◀─────────┘
//	                  │ lookup indices
//	LookupList  ─▶ Lookup ─▶ sub-tables (Coverage, ClassDef, …)
type LayoutTable struct {
	data        binarySegm
	Major       uint16
	Minor       uint16
	scriptList  int
	featureList int
	lookupList  int
}

func parseLayoutHeader(b binarySegm) (LayoutTable, error) {
	lt := LayoutTable{data: b}
	hdr, err := b.view(0, 10)
	if err != nil {
		return lt, err
	}
	lt.Major, lt.Minor = u16(hdr), u16(hdr[2:])
	if lt.Major != 1 {
		return lt, errUnsupported("layout table version", int(lt.Major))
	}
	lt.scriptList = int(u16(hdr[4:]))
	lt.featureList = int(u16(hdr[6:]))
	lt.lookupList = int(u16(hdr[8:]))
	for _, off := range []int{lt.scriptList, lt.featureList, lt.lookupList} {
		if _, err := b.u16(off); err != nil {
			return lt, err
		}
	}
	return lt, nil
}

// ReadU16 reads an unsigned 16-bit value at a byte offset of the layout table.
func (lt *LayoutTable) ReadU16(offset int) (uint16, error) {
	return lt.data.u16(offset)
}

// ReadI16 reads a signed 16-bit value at a byte offset of the layout table.
func (lt *LayoutTable) ReadI16(offset int) (int16, error) {
	return lt.data.i16(offset)
}

// Reader returns a cursor positioned at a byte offset of the layout table.
func (lt *LayoutTable) Reader(offset int) (*Reader, error) {
	r := NewReader(lt.data)
	return r, r.Seek(offset)
}

// tagRecords scans a list of (tag, offset16) records, preceded by a count,
// for a tag. It returns the index of the record and the offset it links to,
// relative to base.
func (lt *LayoutTable) tagRecords(listOffset int, tag Tag) (int, int, bool, error) {
	count, err := lt.data.u16(listOffset)
	if err != nil {
		return 0, 0, false, err
	}
	recs, err := lt.data.view(listOffset+2, 6*int(count))
	if err != nil {
		return 0, 0, false, err
	}
	for i := 0; i < int(count); i++ {
		if Tag(u32(recs[6*i:])) == tag {
			return i, int(u16(recs[6*i+4:])), true, nil
		}
	}
	return 0, 0, false, nil
}

// ScriptTags lists the scripts of the script list.
func (lt *LayoutTable) ScriptTags() ([]Tag, error) {
	count, err := lt.data.u16(lt.scriptList)
	if err != nil {
		return nil, err
	}
	recs, err := lt.data.view(lt.scriptList+2, 6*int(count))
	if err != nil {
		return nil, err
	}
	tags := make([]Tag, count)
	for i := range tags {
		tags[i] = Tag(u32(recs[6*i:]))
	}
	return tags, nil
}

// ScriptOffset linearly scans the script list for a script tag and returns the
// offset of the Script table.
func (lt *LayoutTable) ScriptOffset(script Tag) (int, bool, error) {
	_, link, ok, err := lt.tagRecords(lt.scriptList, script)
	if !ok || err != nil {
		return 0, false, err
	}
	return lt.scriptList + link, true, nil
}

// LangOffset scans the language list of a Script table for a language tag and
// returns the offset of its LangSys table. If no explicit language matches,
// the script's default language system is returned. If there is no default
// either, false is returned.
func (lt *LayoutTable) LangOffset(scriptOffset int, lang Tag) (int, bool, error) {
	dflt, err := lt.data.u16(scriptOffset)
	if err != nil {
		return 0, false, err
	}
	if lang != 0 {
		_, link, ok, err := lt.tagRecords(scriptOffset+2, lang)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return scriptOffset + link, true, nil
		}
	}
	if dflt == 0 {
		tracer().Debugf("script at %d has no default language system", scriptOffset)
		return 0, false, nil
	}
	return scriptOffset + int(dflt), true, nil
}

// FeatureOffset scans a LangSys table's feature index list, including the
// required feature, for a feature tag. Feature indices are resolved through
// the feature list. It returns the offset of the Feature table.
func (lt *LayoutTable) FeatureOffset(langOffset int, feature Tag) (int, bool, error) {
	indices, err := lt.langSysFeatures(langOffset)
	if err != nil {
		return 0, false, err
	}
	for _, inx := range indices {
		tag, link, err := lt.featureRecord(int(inx))
		if err != nil {
			return 0, false, err
		}
		if tag == feature {
			return lt.featureList + link, true, nil
		}
	}
	return 0, false, nil
}

// FeatureTags lists the tags of the features a LangSys table links to.
// A required feature comes first.
func (lt *LayoutTable) FeatureTags(langOffset int) ([]Tag, error) {
	indices, err := lt.langSysFeatures(langOffset)
	if err != nil {
		return nil, err
	}
	tags := make([]Tag, len(indices))
	for i, inx := range indices {
		if tags[i], _, err = lt.featureRecord(int(inx)); err != nil {
			return nil, err
		}
	}
	return tags, nil
}

func (lt *LayoutTable) langSysFeatures(langOffset int) ([]uint16, error) {
	r, err := lt.Reader(langOffset)
	if err != nil {
		return nil, err
	}
	var required, count uint16
	if err = r.Skip(2); err == nil { // lookupOrderOffset is reserved
		if required, err = r.U16(); err == nil {
			count, err = r.U16()
		}
	}
	if err != nil {
		return nil, err
	}
	indices := make([]uint16, 0, count+1)
	if required != 0xffff {
		indices = append(indices, required)
	}
	for i := 0; i < int(count); i++ {
		inx, err := r.U16()
		if err != nil {
			return nil, err
		}
		indices = append(indices, inx)
	}
	return indices, nil
}

func (lt *LayoutTable) featureRecord(inx int) (Tag, int, error) {
	count, err := lt.data.u16(lt.featureList)
	if err != nil {
		return 0, 0, err
	}
	if inx >= int(count) {
		return 0, 0, errRange("feature index", inx, int(count))
	}
	rec, err := lt.data.view(lt.featureList+2+6*inx, 6)
	if err != nil {
		return 0, 0, err
	}
	return Tag(u32(rec)), int(u16(rec[4:])), nil
}

// FeatureLookups returns the lookup list indices of a Feature table.
func (lt *LayoutTable) FeatureLookups(featureOffset int) ([]uint16, error) {
	count, err := lt.data.u16(featureOffset + 2)
	if err != nil {
		return nil, err
	}
	b, err := lt.data.view(featureOffset+4, 2*int(count))
	if err != nil {
		return nil, err
	}
	inx := make([]uint16, count)
	for i := range inx {
		inx[i] = u16(b[2*i:])
	}
	return inx, nil
}

// LayoutTableLookupFlag is a flag type for layout tables (GPOS and GSUB).
type LayoutTableLookupFlag uint16

// Lookup flags of layout tables (GPOS and GSUB)
const ( // LookupFlag bit enumeration
	// Note that the RIGHT_TO_LEFT flag is used only for GPOS type 3 lookups and is ignored
	// otherwise. It is not used by client software in determining text direction.
	LOOKUP_FLAG_RIGHT_TO_LEFT             LayoutTableLookupFlag = 0x0001
	LOOKUP_FLAG_IGNORE_BASE_GLYPHS        LayoutTableLookupFlag = 0x0002 // If set, skips over base glyphs
	LOOKUP_FLAG_IGNORE_LIGATURES          LayoutTableLookupFlag = 0x0004 // If set, skips over ligatures
	LOOKUP_FLAG_IGNORE_MARKS              LayoutTableLookupFlag = 0x0008 // If set, skips over all combining marks
	LOOKUP_FLAG_USE_MARK_FILTERING_SET    LayoutTableLookupFlag = 0x0010 // If set, indicates that the lookup table structure is followed by a MarkFilteringSet field.
	LOOKUP_FLAG_MARK_ATTACHMENT_TYPE_MASK LayoutTableLookupFlag = 0xFF00 // If not zero, skips over all marks of attachment type different from specified.
)

// LayoutTableLookupType is a type identifier for layout lookup records (GPOS and GSUB).
// Enum values are different for GPOS and GSUB.
type LayoutTableLookupType uint16

// Lookup is a lookup table of the lookup list.
type Lookup struct {
	Type      LayoutTableLookupType
	Flag      LayoutTableLookupFlag
	Subtables []int // offsets of the lookup's sub-tables
}

// LookupCount returns the number of entries in the lookup list.
func (lt *LayoutTable) LookupCount() (int, error) {
	n, err := lt.data.u16(lt.lookupList)
	return int(n), err
}

// Lookup returns the lookup at index inx of the lookup list.
func (lt *LayoutTable) Lookup(inx int) (Lookup, error) {
	count, err := lt.data.u16(lt.lookupList)
	if err != nil {
		return Lookup{}, err
	}
	if inx >= int(count) {
		return Lookup{}, errRange("lookup index", inx, int(count))
	}
	link, err := lt.data.u16(lt.lookupList + 2 + 2*inx)
	if err != nil {
		return Lookup{}, err
	}
	off := lt.lookupList + int(link)
	hdr, err := lt.data.view(off, 6)
	if err != nil {
		return Lookup{}, err
	}
	lookup := Lookup{
		Type: LayoutTableLookupType(u16(hdr)),
		Flag: LayoutTableLookupFlag(u16(hdr[2:])),
	}
	n := int(u16(hdr[4:]))
	subs, err := lt.data.view(off+6, 2*n)
	if err != nil {
		return Lookup{}, err
	}
	lookup.Subtables = make([]int, n)
	for i := range lookup.Subtables {
		lookup.Subtables[i] = off + int(u16(subs[2*i:]))
	}
	return lookup, nil
}

// --- Coverage tables -------------------------------------------------------

// CoverageIndex returns the coverage index of a glyph in the Coverage table at
// offset. If the glyph is not covered, false is returned.
//
// Format 1 lists individual glyph IDs, format 2 lists ranges of glyph IDs; both
// are sorted, and we do a binary search on them.
// Other formats fail with core.ErrUnsupportedFormat.
func (lt *LayoutTable) CoverageIndex(offset int, g GlyphIndex) (int, bool, error) {
	hdr, err := lt.data.view(offset, 4)
	if err != nil {
		return 0, false, err
	}
	format, count := u16(hdr), int(u16(hdr[2:]))
	switch format {
	case 1:
		glyphs, err := lt.data.view(offset+4, 2*count)
		if err != nil {
			return 0, false, err
		}
		i := sort.Search(count, func(i int) bool {
			return GlyphIndex(u16(glyphs[2*i:])) >= g
		})
		if i < count && GlyphIndex(u16(glyphs[2*i:])) == g {
			return i, true, nil
		}
		return 0, false, nil
	case 2:
		ranges, err := lt.data.view(offset+4, 6*count)
		if err != nil {
			return 0, false, err
		}
		i := sort.Search(count, func(i int) bool { // search for first range with end ≥ g
			return GlyphIndex(u16(ranges[6*i+2:])) >= g
		})
		if i < count {
			rec := ranges[6*i:]
			if start := GlyphIndex(u16(rec)); start <= g {
				return int(u16(rec[4:])) + int(g-start), true, nil
			}
		}
		return 0, false, nil
	}
	return 0, false, errUnsupported("coverage", int(format))
}

// --- Class definition tables -----------------------------------------------

// ClassOf returns the class of a glyph as defined by the class definition
// table at offset. If the glyph is outside the domain of the table, false is
// returned; clients usually treat this as class 0.
//
// From the spec:
// For efficiency and ease of representation, a font developer can group glyph indices
// to form glyph classes. Class assignments vary in meaning from one lookup subtable
// to another.
// (see https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#class-definition-table)
func (lt *LayoutTable) ClassOf(offset int, g GlyphIndex) (uint16, bool, error) {
	format, err := lt.data.u16(offset)
	if err != nil {
		return 0, false, err
	}
	switch format {
	case 1:
		hdr, err := lt.data.view(offset+2, 4)
		if err != nil {
			return 0, false, err
		}
		start, count := GlyphIndex(u16(hdr)), int(u16(hdr[2:]))
		if g < start || int(g-start) >= count {
			return 0, false, nil
		}
		clz, err := lt.data.u16(offset + 6 + 2*int(g-start))
		return clz, err == nil, err
	case 2:
		count, err := lt.data.u16(offset + 2)
		if err != nil {
			return 0, false, err
		}
		ranges, err := lt.data.view(offset+4, 6*int(count))
		if err != nil {
			return 0, false, err
		}
		n := int(count)
		i := sort.Search(n, func(i int) bool {
			return GlyphIndex(u16(ranges[6*i+2:])) >= g
		})
		if i < n && GlyphIndex(u16(ranges[6*i:])) <= g {
			return u16(ranges[6*i+4:]), true, nil
		}
		return 0, false, nil
	}
	return 0, false, errUnsupported("class definition", int(format))
}
