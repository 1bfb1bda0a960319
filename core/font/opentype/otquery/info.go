package otquery

import (
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
	"golang.org/x/image/font/sfnt"
)

// FontType returns the font type, encoded in the font header, as a string.
func FontType(otf *ot.Font) string {
	if otf.Header == nil {
		return "<empty>"
	}
	switch otf.Header.FontType {
	case 0x4f54544f: // OTTO
		return "OpenType (outlines)"
	case 0x00010000: // TrueType
		return "TrueType"
	case 0x74727565: // true
		return "TrueType (Mac legacy)"
	}
	return "<unknown>"
}

var nameIDs = map[string]sfnt.NameID{
	"family":    sfnt.NameIDFamily,
	"subfamily": sfnt.NameIDSubfamily,
	"fullname":  sfnt.NameIDFull,
	"version":   sfnt.NameIDVersion,
}

// NameInfo returns a map with selected fields from OpenType table `name`.
// Will include (if available in the font) "family", "subfamily", "fullname"
// and "version".
//
// Table `name` is interpreted by package sfnt, which requires a font to carry
// a `post` table. For fonts sfnt will not accept, the map is empty.
func NameInfo(otf *ot.Font) map[string]string {
	names := make(map[string]string)
	if otf.Table(ot.T("name")) == nil {
		tracer().Debugf("no name table found in font")
		return names
	}
	f, err := sfnt.Parse(otf.Binary())
	if err != nil {
		tracer().Infof("cannot read name table: %v", err)
		return names
	}
	var buf sfnt.Buffer
	for key, id := range nameIDs {
		if s, err := f.Name(&buf, id); err == nil && s != "" {
			names[key] = s
		}
	}
	return names
}

// LayoutTables returns a list of tag strings, one for each layout-table a font includes.
//
// From the spec:
// OpenType Layout makes use of five tables: GSUB, GPOS, BASE, JSTF, and GDEF.
func LayoutTables(otf *ot.Font) []string {
	var lt []string
	for _, tag := range otf.TableTags() {
		switch tag.String() {
		case "GSUB", "GPOS", "BASE", "JSTF", "GDEF":
			lt = append(lt, tag.String())
		}
	}
	return lt
}

// FontSupportsScript returns a tuple (script-tag, language-tag) for a given input
// of a script tag and a language tag. If the language has no special support in the
// font, DFLT will be returned. If the script has no support in the font,
// DFLT will be returned for the script.
//
// Scripts are searched for in table GSUB first, then in GPOS.
func FontSupportsScript(otf *ot.Font, scr ot.Tag, lang ot.Tag) (ot.Tag, ot.Tag) {
	for _, lt := range layoutTables(otf) {
		s, ok, err := lt.ScriptOffset(scr)
		if err != nil || !ok {
			continue
		}
		tracer().Debugf("script %s is contained in font", scr)
		if lang == 0 {
			return scr, ot.DFLT
		}
		explicit, ok, err := lt.LangOffset(s, lang)
		if err != nil || !ok {
			return scr, ot.DFLT
		}
		if dflt, ok, _ := lt.LangOffset(s, 0); ok && dflt == explicit {
			return scr, ot.DFLT
		}
		return scr, lang
	}
	tracer().Infof("cannot find script %s in font", scr)
	return ot.DFLT, ot.DFLT
}

func layoutTables(otf *ot.Font) []*ot.LayoutTable {
	var lts []*ot.LayoutTable
	if otf.Layout.GSub != nil {
		lts = append(lts, &otf.Layout.GSub.LayoutTable)
	}
	if otf.Layout.GPos != nil {
		lts = append(lts, &otf.Layout.GPos.LayoutTable)
	}
	return lts
}
