package otlayout

import (
	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
)

// Kerning sums the horizontal advance adjustments of a GPOS feature (usually
// 'kern') for glyph cur followed by glyph next. Values are in font units.
// next may be ot.NoGlyph at the end of a text, in which case only single
// adjustments apply.
//
// Within a lookup, the first sub-table matching the glyphs applies.
// Lookup types other than single and pair adjustment fail with
// core.ErrNotImplemented.
func (f *Feature) Kerning(cur, next ot.GlyphIndex) (int16, bool, error) {
	if f == nil {
		return 0, false, nil
	}
	if f.Type != GPosFeatureType {
		return 0, false, core.Error(core.EINVALID, "%s is not a positioning feature", f)
	}
	var kern int16
	found := false
	for _, inx := range f.Lookups {
		subs, err := f.subtables(inx, ot.GPosLookupTypeExtensionPos)
		if err != nil {
			return 0, false, err
		}
		for _, sub := range subs {
			var v int16
			var ok bool
			switch sub.typ {
			case ot.GPosLookupTypeSingle:
				v, ok, err = f.singleAdjustment(sub.offset, cur)
			case ot.GPosLookupTypePair:
				if next == ot.NoGlyph {
					continue
				}
				v, ok, err = f.pairAdjustment(sub.offset, cur, next)
			default:
				return 0, false, core.Error(core.ENOTIMPL,
					"GPOS lookup type %s not implemented", sub.typ.GPosString())
			}
			if err != nil {
				return 0, false, err
			}
			if ok {
				kern += v
				found = true
				break
			}
		}
	}
	return kern, found, nil
}

// xAdvance reads the XAdvance field of a ValueRecord, which is 0 if the
// format does not include it.
func (f *Feature) xAdvance(record int, format uint16) (int16, error) {
	off := ot.XAdvanceOffset(format)
	if off < 0 {
		return 0, nil
	}
	return f.table.ReadI16(record + off)
}

// GPOS LookupType 1: Single Adjustment Positioning Subtable
//
// Format 1 applies the same ValueRecord to every covered glyph, format 2 has
// a ValueRecord for each covered glyph, indexed by coverage index.
func (f *Feature) singleAdjustment(sub int, g ot.GlyphIndex) (int16, bool, error) {
	format, err := f.u16(sub)
	if err != nil {
		return 0, false, err
	}
	cov, err := f.link(sub, 2)
	if err != nil {
		return 0, false, err
	}
	inx, ok, err := f.table.CoverageIndex(cov, g)
	if !ok || err != nil {
		return 0, false, err
	}
	vf, err := f.u16(sub + 4)
	if err != nil {
		return 0, false, err
	}
	var v int16
	switch format {
	case 1:
		v, err = f.xAdvance(sub+6, vf)
	case 2:
		var count uint16
		if count, err = f.u16(sub + 6); err == nil && inx >= int(count) {
			return 0, false, errFontFormat("coverage index exceeds value count")
		}
		if err == nil {
			v, err = f.xAdvance(sub+8+inx*ot.ValueRecordSize(vf), vf)
		}
	default:
		return 0, false, core.Error(core.EFORMAT, "single adjustment format %d", format)
	}
	tracer().Debugf("OT lookup GPOS 1/%d: adjust %d by %d", format, g, v)
	return v, err == nil, err
}

// GPOS LookupType 2: Pair Adjustment Positioning Subtable
//
// Format 1 lists explicit pairs: for each covered first glyph a PairSet holds
// PairValueRecords, sorted by second glyph. Format 2 defines pairs by the
// classes of both glyphs and holds a matrix of ValueRecords.
// We use the first ValueRecord only, which adjusts the first glyph.
func (f *Feature) pairAdjustment(sub int, first, second ot.GlyphIndex) (int16, bool, error) {
	r, err := f.table.Reader(sub)
	if err != nil {
		return 0, false, err
	}
	var hdr [4]uint16 // format, coverage offset, valueFormat1, valueFormat2
	for i := range hdr {
		if hdr[i], err = r.U16(); err != nil {
			return 0, false, err
		}
	}
	format, vf1, vf2 := hdr[0], hdr[2], hdr[3]
	inx, ok, err := f.table.CoverageIndex(sub+int(hdr[1]), first)
	if !ok || err != nil {
		return 0, false, err
	}
	switch format {
	case 1:
		return f.pairSet(sub, inx, second, vf1, vf2)
	case 2:
		return f.pairClasses(sub, first, second, vf1, vf2)
	}
	return 0, false, core.Error(core.EFORMAT, "pair adjustment format %d", format)
}

func (f *Feature) pairSet(sub, inx int, second ot.GlyphIndex, vf1, vf2 uint16) (int16, bool, error) {
	count, err := f.u16(sub + 8)
	if err != nil {
		return 0, false, err
	}
	if inx >= int(count) {
		return 0, false, errFontFormat("coverage index exceeds pair set count")
	}
	set, err := f.link(sub, 10+2*inx)
	if err != nil {
		return 0, false, err
	}
	n, err := f.u16(set)
	if err != nil {
		return 0, false, err
	}
	size := 2 + ot.ValueRecordSize(vf1) + ot.ValueRecordSize(vf2)
	lo, hi := 0, int(n)
	for lo < hi {
		i := (lo + hi) / 2
		rec := set + 2 + i*size
		g, err := f.u16(rec)
		if err != nil {
			return 0, false, err
		}
		switch {
		case ot.GlyphIndex(g) < second:
			lo = i + 1
		case ot.GlyphIndex(g) > second:
			hi = i
		default:
			v, err := f.xAdvance(rec+2, vf1)
			tracer().Debugf("OT lookup GPOS 2/1: kern %d/%d by %d", ot.GlyphIndex(g), second, v)
			return v, err == nil, err
		}
	}
	return 0, false, nil
}

func (f *Feature) pairClasses(sub int, first, second ot.GlyphIndex, vf1, vf2 uint16) (int16, bool, error) {
	r, err := f.table.Reader(sub + 8)
	if err != nil {
		return 0, false, err
	}
	var hdr [4]uint16 // classDef1 offset, classDef2 offset, class1Count, class2Count
	for i := range hdr {
		if hdr[i], err = r.U16(); err != nil {
			return 0, false, err
		}
	}
	// glyphs not assigned to a class are of class 0
	c1, _, err := f.table.ClassOf(sub+int(hdr[0]), first)
	if err != nil {
		return 0, false, err
	}
	c2, _, err := f.table.ClassOf(sub+int(hdr[1]), second)
	if err != nil {
		return 0, false, err
	}
	if c1 >= hdr[2] || c2 >= hdr[3] {
		return 0, false, errFontFormat("glyph class exceeds class count")
	}
	size := ot.ValueRecordSize(vf1) + ot.ValueRecordSize(vf2)
	rec := sub + 16 + (int(c1)*int(hdr[3])+int(c2))*size
	v, err := f.xAdvance(rec, vf1)
	tracer().Debugf("OT lookup GPOS 2/2: kern classes %d/%d by %d", c1, c2, v)
	return v, err == nil, err
}
