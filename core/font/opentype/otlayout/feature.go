package otlayout

import (
	"fmt"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
)

// LayoutTagType denotes the layout table a feature lives in.
type LayoutTagType int

// Features live either in table GSUB or in table GPOS.
const (
	GSubFeatureType LayoutTagType = iota + 1
	GPosFeatureType
)

func (typ LayoutTagType) String() string {
	switch typ {
	case GSubFeatureType:
		return "GSUB"
	case GPosFeatureType:
		return "GPOS"
	}
	return fmt.Sprintf("LayoutTagType(%d)", int(typ))
}

// Feature tags we apply.
var (
	LigaFeature = ot.T("liga")
	KernFeature = ot.T("kern")
)

// Feature is an OpenType layout feature, resolved for a script and language.
// From the specification website
// https://docs.microsoft.com/en-us/typography/opentype/spec/featuretags :
//
// “Each OpenType Layout feature has a feature tag that identifies its typographic
// function and effects. By examining a feature’s tag, a text-processing client can
// determine what a feature does and decide whether to implement it.”
//
// A feature uses ‘lookups’ to do operations on glyphs. GSUB and GPOS tables store
// lookups in a LookupList, into which features link by maintaining a list of indices.
// The order of the lookup indices matters.
type Feature struct {
	Tag     ot.Tag
	Type    LayoutTagType
	Script  ot.Tag   // script the feature has been found for, may be DFLT
	Lookups []uint16 // indices into the lookup list
	table   *ot.LayoutTable
}

func (f *Feature) String() string {
	return fmt.Sprintf("%s feature '%s' (script %s, %d lookups)", f.Type, f.Tag, f.Script, len(f.Lookups))
}

func layoutTable(otf *ot.Font, typ LayoutTagType) *ot.LayoutTable {
	switch typ {
	case GSubFeatureType:
		if otf.Layout.GSub != nil {
			return &otf.Layout.GSub.LayoutTable
		}
	case GPosFeatureType:
		if otf.Layout.GPos != nil {
			return &otf.Layout.GPos.LayoutTable
		}
	}
	return nil
}

// scripts returns the scripts to search, in order of preference.
func scripts(script ot.Tag) []ot.Tag {
	if script == 0 || script == ot.DFLT {
		return []ot.Tag{ot.DFLT}
	}
	return []ot.Tag{script, ot.DFLT}
}

// FindFeature looks up an OpenType layout feature in font otf. If the
// feature is not present for script, script 'DFLT' is searched. Setting
// lang to 0 selects the default language system of a script.
//
// Fonts without the layout table in question, or without the feature,
// return false and no error.
func FindFeature(otf *ot.Font, typ LayoutTagType, script, lang, tag ot.Tag) (*Feature, bool, error) {
	lt := layoutTable(otf, typ)
	if lt == nil {
		tracer().Debugf("font has no %s table", typ)
		return nil, false, nil
	}
	for _, scr := range scripts(script) {
		langsys, ok, err := langSys(lt, scr, lang)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		feat, ok, err := lt.FeatureOffset(langsys, tag)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		lookups, err := lt.FeatureLookups(feat)
		if err != nil {
			return nil, false, err
		}
		f := &Feature{Tag: tag, Type: typ, Script: scr, Lookups: lookups, table: lt}
		tracer().Debugf("found %s", f)
		return f, true, nil
	}
	tracer().Debugf("%s feature '%s' not found for script %s", typ, tag, script)
	return nil, false, nil
}

func langSys(lt *ot.LayoutTable, script, lang ot.Tag) (int, bool, error) {
	s, ok, err := lt.ScriptOffset(script)
	if !ok || err != nil {
		return 0, false, err
	}
	return lt.LangOffset(s, lang)
}

// FontFeatures lists the feature tags of a layout table for a script and
// language, with the same fallback to 'DFLT' as FindFeature. It returns the
// script the features have been found for.
func FontFeatures(otf *ot.Font, typ LayoutTagType, script, lang ot.Tag) ([]ot.Tag, ot.Tag, error) {
	lt := layoutTable(otf, typ)
	if lt == nil {
		return nil, 0, nil
	}
	for _, scr := range scripts(script) {
		langsys, ok, err := langSys(lt, scr, lang)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			tags, err := lt.FeatureTags(langsys)
			return tags, scr, err
		}
	}
	return nil, 0, nil
}

// FontScripts lists the scripts of a layout table.
func FontScripts(otf *ot.Font, typ LayoutTagType) ([]ot.Tag, error) {
	lt := layoutTable(otf, typ)
	if lt == nil {
		return nil, nil
	}
	return lt.ScriptTags()
}

// subtable is a lookup sub-table, with extension lookups resolved.
type subtable struct {
	typ    ot.LayoutTableLookupType
	offset int
}

// subtables collects the sub-tables of lookup number inx. Sub-tables of type
// ext are extension sub-tables, which point to the actual sub-table.
func (f *Feature) subtables(inx uint16, ext ot.LayoutTableLookupType) ([]subtable, error) {
	lookup, err := f.table.Lookup(int(inx))
	if err != nil {
		return nil, err
	}
	subs := make([]subtable, 0, len(lookup.Subtables))
	for _, off := range lookup.Subtables {
		if lookup.Type != ext {
			subs = append(subs, subtable{typ: lookup.Type, offset: off})
			continue
		}
		r, err := f.table.Reader(off)
		if err != nil {
			return nil, err
		}
		var format, typ uint16
		var link uint32
		if format, err = r.U16(); err == nil {
			if typ, err = r.U16(); err == nil {
				link, err = r.U32()
			}
		}
		if err != nil {
			return nil, err
		}
		if format != 1 {
			return nil, core.Error(core.EFORMAT, "extension sub-table format %d", format)
		}
		if ot.LayoutTableLookupType(typ) == ext {
			return nil, errFontFormat("extension sub-table links to extension")
		}
		subs = append(subs, subtable{typ: ot.LayoutTableLookupType(typ), offset: off + int(link)})
	}
	return subs, nil
}

func (f *Feature) u16(offset int) (uint16, error) {
	return f.table.ReadU16(offset)
}

// link reads an offset16 at offset within a sub-table and makes it
// absolute.
func (f *Feature) link(base, offset int) (int, error) {
	l, err := f.table.ReadU16(base + offset)
	return base + int(l), err
}
