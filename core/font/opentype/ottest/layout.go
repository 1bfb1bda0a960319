package ottest

import "sort"

// Every layout table we write has scripts 'DFLT' and 'latn'. Script 'latn'
// has an additional language system 'TRK ', which refers to the same
// features as the default language system.

type feature struct {
	tag     string
	lookups []uint16
}

type lookup struct {
	typ       uint16
	subtables [][]byte
}

// layoutTable writes a GSUB or GPOS table. If ext is not 0, every lookup is
// wrapped into an extension lookup of type ext.
func layoutTable(features []feature, lookups []lookup, ext uint16) []byte {
	langSys := &writer{}
	langSys.u16(0)      // lookupOrderOffset
	langSys.u16(0xffff) // requiredFeatureIndex
	langSys.u16(uint16(len(features)))
	for i := range features {
		langSys.u16(uint16(i))
	}
	dflt := &writer{}
	dflt.u16(4) // defaultLangSysOffset
	dflt.u16(0) // langSysCount
	dflt.bytes(langSys.b)
	latn := &writer{}
	latn.u16(10)
	latn.u16(1)
	latn.tag("TRK")
	latn.u16(uint16(10 + len(langSys.b)))
	latn.bytes(langSys.b)
	latn.bytes(langSys.b)
	scripts := &writer{}
	scripts.u16(2)
	scripts.tag("DFLT")
	scripts.u16(14)
	scripts.tag("latn")
	scripts.u16(uint16(14 + len(dflt.b)))
	scripts.bytes(dflt.b)
	scripts.bytes(latn.b)

	feats := &writer{}
	feats.u16(uint16(len(features)))
	at := 2 + 6*len(features)
	for _, f := range features {
		feats.tag(f.tag)
		feats.u16(uint16(at))
		at += 4 + 2*len(f.lookups)
	}
	for _, f := range features {
		feats.u16(0) // featureParamsOffset
		feats.u16(uint16(len(f.lookups)))
		for _, l := range f.lookups {
			feats.u16(l)
		}
	}

	lkps := &writer{}
	lkps.u16(uint16(len(lookups)))
	at = 2 + 2*len(lookups)
	encoded := make([][]byte, len(lookups))
	for i, l := range lookups {
		if ext != 0 {
			l = extension(l, ext)
		}
		encoded[i] = encodeLookup(l)
		lkps.u16(uint16(at))
		at += len(encoded[i])
	}
	for _, l := range encoded {
		lkps.bytes(l)
	}

	w := &writer{}
	w.u16(1) // majorVersion
	w.u16(0) // minorVersion
	w.u16(10)
	w.u16(uint16(10 + len(scripts.b)))
	w.u16(uint16(10 + len(scripts.b) + len(feats.b)))
	w.bytes(scripts.b)
	w.bytes(feats.b)
	w.bytes(lkps.b)
	return w.b
}

func encodeLookup(l lookup) []byte {
	w := &writer{}
	w.u16(l.typ)
	w.u16(0) // lookupFlag
	w.u16(uint16(len(l.subtables)))
	at := 6 + 2*len(l.subtables)
	for _, s := range l.subtables {
		w.u16(uint16(at))
		at += len(s)
	}
	for _, s := range l.subtables {
		w.bytes(s)
	}
	return w.b
}

func extension(l lookup, ext uint16) lookup {
	wrapped := lookup{typ: ext}
	for _, s := range l.subtables {
		w := &writer{}
		w.u16(1) // format
		w.u16(l.typ)
		w.u32(8) // extensionOffset
		w.bytes(s)
		wrapped.subtables = append(wrapped.subtables, w.b)
	}
	return wrapped
}

// stub is the sub-table of lookups we declare but never fill.
func stub() []byte {
	w := &writer{}
	w.u16(1) // format
	w.u16(0) // coverage offset
	return w.b
}

// coverage writes a coverage table for a sorted list of distinct glyphs.
func (b *Builder) coverage(glyphs []uint16) []byte {
	w := &writer{}
	if !b.CoverageFormat2 {
		w.u16(1)
		w.u16(uint16(len(glyphs)))
		for _, g := range glyphs {
			w.u16(g)
		}
		return w.b
	}
	type rng struct{ start, end, index uint16 }
	var ranges []rng
	for i, g := range glyphs {
		if k := len(ranges) - 1; k >= 0 && ranges[k].end+1 == g {
			ranges[k].end = g
			continue
		}
		ranges = append(ranges, rng{g, g, uint16(i)})
	}
	w.u16(2)
	w.u16(uint16(len(ranges)))
	for _, r := range ranges {
		w.u16(r.start)
		w.u16(r.end)
		w.u16(r.index)
	}
	return w.b
}

// classDef writes a class definition table. Glyphs of class 0 are omitted
// in format 2.
func (b *Builder) classDef(classes map[uint16]uint16) []byte {
	glyphs := sortedKeys(classes)
	w := &writer{}
	if len(glyphs) == 0 {
		w.u16(2)
		w.u16(0)
		return w.b
	}
	if !b.ClassDefFormat2 {
		start, end := glyphs[0], glyphs[len(glyphs)-1]
		w.u16(1)
		w.u16(start)
		w.u16(end - start + 1)
		for g := start; g <= end; g++ {
			w.u16(classes[g])
		}
		return w.b
	}
	type rng struct{ start, end, class uint16 }
	var ranges []rng
	for _, g := range glyphs {
		c := classes[g]
		if c == 0 {
			continue
		}
		if k := len(ranges) - 1; k >= 0 && ranges[k].end+1 == g && ranges[k].class == c {
			ranges[k].end = g
			continue
		}
		ranges = append(ranges, rng{g, g, c})
	}
	w.u16(2)
	w.u16(uint16(len(ranges)))
	for _, r := range ranges {
		w.u16(r.start)
		w.u16(r.end)
		w.u16(r.class)
	}
	return w.b
}

func sortedKeys(m map[uint16]uint16) []uint16 {
	keys := make([]uint16, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (b *Builder) extension(typ uint16) uint16 {
	if b.ExtensionLookups {
		return typ
	}
	return 0
}

// --- GSUB ------------------------------------------------------------------

func (b *Builder) gsubTable() []byte {
	var lookups []lookup
	if len(b.ligatures) > 0 {
		lookups = append(lookups, lookup{typ: 4, subtables: [][]byte{b.ligatureSubst()}})
	}
	for _, typ := range b.unsupSubst {
		lookups = append(lookups, lookup{typ: typ, subtables: [][]byte{stub()}})
	}
	liga := feature{tag: "liga"}
	for i := range lookups {
		liga.lookups = append(liga.lookups, uint16(i))
	}
	// a feature we do not apply, to have more than one feature to search
	lookups = append(lookups, lookup{typ: 1, subtables: [][]byte{stub()}})
	smcp := feature{tag: "smcp", lookups: []uint16{uint16(len(lookups) - 1)}}
	return layoutTable([]feature{smcp, liga}, lookups, b.extension(7))
}

// ligatureSubst writes a ligature substitution sub-table, format 1.
func (b *Builder) ligatureSubst() []byte {
	sets := make(map[uint16][]ligature)
	for _, l := range b.ligatures {
		first := l.components[0]
		sets[first] = append(sets[first], l)
	}
	firsts := make([]uint16, 0, len(sets))
	for g := range sets {
		firsts = append(firsts, g)
	}
	sort.Slice(firsts, func(i, j int) bool { return firsts[i] < firsts[j] })
	encSets := make([][]byte, len(firsts))
	for i, g := range firsts {
		ligs := sets[g]
		w := &writer{}
		w.u16(uint16(len(ligs)))
		at := 2 + 2*len(ligs)
		for _, l := range ligs {
			w.u16(uint16(at))
			at += 4 + 2*(len(l.components)-1)
		}
		for _, l := range ligs {
			w.u16(l.glyph)
			w.u16(uint16(len(l.components)))
			for _, c := range l.components[1:] {
				w.u16(c)
			}
		}
		encSets[i] = w.b
	}
	w := &writer{}
	w.u16(1) // substFormat
	covAt := w.len()
	w.u16(0) // coverageOffset, patched below
	w.u16(uint16(len(encSets)))
	at := 6 + 2*len(encSets)
	for _, s := range encSets {
		w.u16(uint16(at))
		at += len(s)
	}
	for _, s := range encSets {
		w.bytes(s)
	}
	w.patch(covAt, uint16(w.len()))
	w.bytes(b.coverage(firsts))
	return w.b
}

// --- GPOS ------------------------------------------------------------------

const valueFormatXAdvance = 0x0004

func (b *Builder) gposTable() []byte {
	var lookups []lookup
	if len(b.singles) > 0 {
		lookups = append(lookups, lookup{typ: 1, subtables: [][]byte{b.singleAdjust()}})
	}
	if len(b.pairs) > 0 {
		lookups = append(lookups, lookup{typ: 2, subtables: [][]byte{b.pairAdjust()}})
	}
	for _, ck := range b.classKerns {
		lookups = append(lookups, lookup{typ: 2, subtables: [][]byte{b.classPairAdjust(ck)}})
	}
	for _, typ := range b.unsupPos {
		lookups = append(lookups, lookup{typ: typ, subtables: [][]byte{stub()}})
	}
	kern := feature{tag: "kern"}
	for i := range lookups {
		kern.lookups = append(kern.lookups, uint16(i))
	}
	return layoutTable([]feature{kern}, lookups, b.extension(9))
}

// singleAdjust writes a single adjustment sub-table, format 2.
func (b *Builder) singleAdjust() []byte {
	values := make(map[uint16]int16)
	for _, s := range b.singles {
		values[s.glyph] = s.xAdvance
	}
	glyphs := make([]uint16, 0, len(values))
	for g := range values {
		glyphs = append(glyphs, g)
	}
	sort.Slice(glyphs, func(i, j int) bool { return glyphs[i] < glyphs[j] })
	w := &writer{}
	w.u16(2) // posFormat
	covAt := w.len()
	w.u16(0)
	w.u16(valueFormatXAdvance)
	w.u16(uint16(len(glyphs)))
	for _, g := range glyphs {
		w.i16(values[g])
	}
	w.patch(covAt, uint16(w.len()))
	w.bytes(b.coverage(glyphs))
	return w.b
}

// pairAdjust writes a pair adjustment sub-table, format 1.
func (b *Builder) pairAdjust() []byte {
	sets := make(map[uint16][]pair)
	for _, p := range b.pairs {
		sets[p.first] = append(sets[p.first], p)
	}
	firsts := make([]uint16, 0, len(sets))
	for g := range sets {
		firsts = append(firsts, g)
	}
	sort.Slice(firsts, func(i, j int) bool { return firsts[i] < firsts[j] })
	w := &writer{}
	w.u16(1) // posFormat
	covAt := w.len()
	w.u16(0)
	w.u16(valueFormatXAdvance) // valueFormat1
	w.u16(0)                   // valueFormat2
	w.u16(uint16(len(firsts)))
	at := 10 + 2*len(firsts)
	for _, g := range firsts {
		w.u16(uint16(at))
		at += 2 + 4*len(sets[g])
	}
	for _, g := range firsts {
		set := sets[g]
		sort.Slice(set, func(i, j int) bool { return set[i].second < set[j].second })
		w.u16(uint16(len(set)))
		for _, p := range set {
			w.u16(p.second)
			w.i16(p.xAdvance)
		}
	}
	w.patch(covAt, uint16(w.len()))
	w.bytes(b.coverage(firsts))
	return w.b
}

// classPairAdjust writes a pair adjustment sub-table, format 2.
func (b *Builder) classPairAdjust(ck classKerning) []byte {
	class2Count := 0
	for _, row := range ck.values {
		if len(row) > class2Count {
			class2Count = len(row)
		}
	}
	w := &writer{}
	w.u16(2) // posFormat
	covAt := w.len()
	w.u16(0)
	w.u16(valueFormatXAdvance)
	w.u16(0)
	cd1At := w.len()
	w.u16(0)
	cd2At := w.len()
	w.u16(0)
	w.u16(uint16(len(ck.values)))
	w.u16(uint16(class2Count))
	for _, row := range ck.values {
		for c2 := 0; c2 < class2Count; c2++ {
			var v int16
			if c2 < len(row) {
				v = row[c2]
			}
			w.i16(v)
		}
	}
	w.patch(covAt, uint16(w.len()))
	w.bytes(b.coverage(sortedKeys(ck.class1)))
	w.patch(cd1At, uint16(w.len()))
	w.bytes(b.classDef(ck.class1))
	w.patch(cd2At, uint16(w.len()))
	w.bytes(b.classDef(ck.class2))
	return w.b
}
