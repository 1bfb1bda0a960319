package otlayout

import (
	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
)

// Ligature searches the lookups of a GSUB feature (usually 'liga') for a
// ligature which replaces the complete glyph sequence. If found, the ligature
// glyph is returned.
//
// Single, multiple and alternate substitutions do not produce ligatures and
// are skipped. Contextual lookups fail with core.ErrNotImplemented.
func (f *Feature) Ligature(glyphs []ot.GlyphIndex) (ot.GlyphIndex, bool, error) {
	if f == nil || len(glyphs) < 2 {
		return ot.NoGlyph, false, nil
	}
	if f.Type != GSubFeatureType {
		return ot.NoGlyph, false, core.Error(core.EINVALID, "%s is not a substitution feature", f)
	}
	for _, inx := range f.Lookups {
		subs, err := f.subtables(inx, ot.GSubLookupTypeExtensionSubs)
		if err != nil {
			return ot.NoGlyph, false, err
		}
		for _, sub := range subs {
			switch sub.typ {
			case ot.GSubLookupTypeSingle, ot.GSubLookupTypeMultiple, ot.GSubLookupTypeAlternate:
				tracer().Debugf("skipping GSUB lookup #%d of type %s", inx, sub.typ.GSubString())
			case ot.GSubLookupTypeLigature:
				lig, ok, err := f.ligatureSubst(sub.offset, glyphs)
				if err != nil || ok {
					return lig, ok, err
				}
			default:
				return ot.NoGlyph, false, core.Error(core.ENOTIMPL,
					"GSUB lookup type %s not implemented", sub.typ.GSubString())
			}
		}
	}
	return ot.NoGlyph, false, nil
}

// GSUB LookupType 4: Ligature Substitution Subtable
//
// The coverage table lists the first glyphs of ligatures. For each of them a
// LigatureSet lists the ligatures starting with this glyph, in order of
// preference. A Ligature table holds the ligature glyph, the component count,
// and the component glyphs following the first one.
func (f *Feature) ligatureSubst(sub int, glyphs []ot.GlyphIndex) (ot.GlyphIndex, bool, error) {
	format, err := f.u16(sub)
	if err != nil {
		return ot.NoGlyph, false, err
	}
	if format != 1 {
		return ot.NoGlyph, false, core.Error(core.EFORMAT, "ligature substitution format %d", format)
	}
	cov, err := f.link(sub, 2)
	if err != nil {
		return ot.NoGlyph, false, err
	}
	inx, ok, err := f.table.CoverageIndex(cov, glyphs[0])
	if !ok || err != nil {
		return ot.NoGlyph, false, err
	}
	count, err := f.u16(sub + 4)
	if err != nil {
		return ot.NoGlyph, false, err
	}
	if inx >= int(count) {
		return ot.NoGlyph, false, errFontFormat("coverage index exceeds ligature set count")
	}
	set, err := f.link(sub, 6+2*inx)
	if err != nil {
		return ot.NoGlyph, false, err
	}
	nligs, err := f.u16(set)
	if err != nil {
		return ot.NoGlyph, false, err
	}
	for i := 0; i < int(nligs); i++ {
		lig, err := f.link(set, 2+2*i)
		if err != nil {
			return ot.NoGlyph, false, err
		}
		if ok, err := f.matchLigature(lig, glyphs); err != nil || !ok {
			if err != nil {
				return ot.NoGlyph, false, err
			}
			continue
		}
		g, err := f.u16(lig)
		tracer().Debugf("OT lookup GSUB 4/1: ligature %d for %v", g, glyphs)
		return ot.GlyphIndex(g), err == nil, err
	}
	return ot.NoGlyph, false, nil
}

func (f *Feature) matchLigature(lig int, glyphs []ot.GlyphIndex) (bool, error) {
	n, err := f.u16(lig + 2)
	if err != nil || int(n) != len(glyphs) {
		return false, err
	}
	for k := 1; k < len(glyphs); k++ {
		c, err := f.u16(lig + 2 + 2*k)
		if err != nil || ot.GlyphIndex(c) != glyphs[k] {
			return false, err
		}
	}
	return true, nil
}
