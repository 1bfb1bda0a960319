package ot

import "strconv"

// GPosTable is a type representing an OpenType GPOS table
// (see https://docs.microsoft.com/en-us/typography/opentype/spec/gpos).
type GPosTable struct {
	tableBase
	LayoutTable
}

func parseGPos(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	lt, err := parseLayoutHeader(b)
	if err != nil {
		return nil, err
	}
	t := &GPosTable{tableBase: makeTableBase(tag, b, offset, size), LayoutTable: lt}
	t.self = t
	return t, nil
}

var _ Table = &GPosTable{}

// GPOS Table
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#table-organization

// GPOS Lookup Type Enumeration
const (
	GPosLookupTypeSingle            LayoutTableLookupType = 1 // Adjust position of a single glyph
	GPosLookupTypePair              LayoutTableLookupType = 2 // Adjust position of a pair of glyphs
	GPosLookupTypeCursive           LayoutTableLookupType = 3 // Attach cursive glyphs
	GPosLookupTypeMarkToBase        LayoutTableLookupType = 4 // Attach a combining mark to a base glyph
	GPosLookupTypeMarkToLigature    LayoutTableLookupType = 5 // Attach a combining mark to a ligature
	GPosLookupTypeMarkToMark        LayoutTableLookupType = 6 // Attach a combining mark to another mark
	GPosLookupTypeContextPos        LayoutTableLookupType = 7 // Position one or more glyphs in context
	GPosLookupTypeChainedContextPos LayoutTableLookupType = 8 // Position one or more glyphs in chained context
	GPosLookupTypeExtensionPos      LayoutTableLookupType = 9 // Extension mechanism for other positionings
)

const gposLookupTypeNames = "Single|Pair|Cursive|MarkToBase|MarkToLigature|MarkToMark|ContextPos|Chained|Ext"

var gposLookupTypeInx = [...]int{0, 7, 12, 20, 31, 46, 57, 68, 76, 80}

// GPosString interprets a layout table lookup type as a GPOS table type.
func (lt LayoutTableLookupType) GPosString() string {
	if lt >= GPosLookupTypeSingle && lt <= GPosLookupTypeExtensionPos {
		lt -= 1
		return gposLookupTypeNames[gposLookupTypeInx[lt] : gposLookupTypeInx[lt+1]-1]
	}
	return strconv.Itoa(int(lt))
}

// ValueRecord format flags. A ValueRecord consists of a 16-bit value for each
// flag set, in the order of the flags.
const (
	ValueFormatXPlacement uint16 = 0x0001
	ValueFormatYPlacement uint16 = 0x0002
	ValueFormatXAdvance   uint16 = 0x0004
	ValueFormatYAdvance   uint16 = 0x0008
	ValueFormatXPlaDevice uint16 = 0x0010
	ValueFormatYPlaDevice uint16 = 0x0020
	ValueFormatXAdvDevice uint16 = 0x0040
	ValueFormatYAdvDevice uint16 = 0x0080
)

// ValueRecordSize returns the byte size of a ValueRecord of a given format.
func ValueRecordSize(format uint16) int {
	n := 0
	for f := format & 0xff; f != 0; f >>= 1 {
		n += int(f & 1)
	}
	return 2 * n
}

// XAdvanceOffset returns the byte offset of the XAdvance field within a
// ValueRecord of a given format, or -1 if the record has no XAdvance field.
func XAdvanceOffset(format uint16) int {
	if format&ValueFormatXAdvance == 0 {
		return -1
	}
	return ValueRecordSize(format & (ValueFormatXPlacement | ValueFormatYPlacement))
}
