package ottest

// Flags of simple glyph points.
const (
	flagOnCurve  = 0x01
	flagXShort   = 0x02
	flagYShort   = 0x04
	flagRepeat   = 0x08
	flagXSameSgn = 0x10
	flagYSameSgn = 0x20
)

// Flags of composite glyph components.
const (
	compArgsAreWords    = 0x0001
	compArgsAreXY       = 0x0002
	compHaveScale       = 0x0008
	compMoreComponents  = 0x0020
	compHaveXYScale     = 0x0040
	compHaveTwoByTwo    = 0x0080
	compUnscaledOffsets = 0x1000
)

// glyfTable encodes all glyphs and returns the glyf table, the loca table and
// the font's bounding box.
func (b *Builder) glyfTable() ([]byte, []byte, [4]int16) {
	glyf, loca := &writer{}, &writer{}
	var fontBox [4]int16
	first := true
	location := func(off int) {
		if b.LongLoca {
			loca.u32(uint32(off))
		} else {
			loca.u16(uint16(off / 2))
		}
	}
	for gid := range b.glyphs {
		location(glyf.len())
		data, box, ok := b.encodeGlyph(uint16(gid))
		if !ok {
			continue
		}
		glyf.bytes(data)
		glyf.pad(4)
		if first {
			fontBox, first = box, false
		} else {
			fontBox = union(fontBox, box)
		}
	}
	location(glyf.len())
	return glyf.b, loca.b, fontBox
}

// GlyphBounds returns the bounding box stored for a glyph, i.e. the box of its
// points, or of its components translated by their offsets.
func (b *Builder) GlyphBounds(gid uint16) [4]int16 {
	g := b.glyphs[gid]
	if g.Bounds != nil {
		return *g.Bounds
	}
	if len(g.Contours) > 0 {
		return pointBounds(g.Contours)
	}
	var box [4]int16
	for i, c := range g.Components {
		cbox := b.GlyphBounds(c.Glyph)
		if !c.Anchor {
			cbox = [4]int16{cbox[0] + c.DX, cbox[1] + c.DY, cbox[2] + c.DX, cbox[3] + c.DY}
		}
		if i == 0 {
			box = cbox
		} else {
			box = union(box, cbox)
		}
	}
	return box
}

func pointBounds(contours [][]Point) [4]int16 {
	box := [4]int16{32767, 32767, -32768, -32768}
	for _, c := range contours {
		for _, p := range c {
			box[0], box[1] = min16(box[0], p.X), min16(box[1], p.Y)
			box[2], box[3] = max16(box[2], p.X), max16(box[3], p.Y)
		}
	}
	return box
}

func union(a, b [4]int16) [4]int16 {
	return [4]int16{min16(a[0], b[0]), min16(a[1], b[1]), max16(a[2], b[2]), max16(a[3], b[3])}
}

func min16(a, b int16) int16 {
	if a < b {
		return a
	}
	return b
}

func max16(a, b int16) int16 {
	if a > b {
		return a
	}
	return b
}

func (b *Builder) encodeGlyph(gid uint16) ([]byte, [4]int16, bool) {
	g := b.glyphs[gid]
	if len(g.Contours) == 0 && len(g.Components) == 0 {
		return nil, [4]int16{}, false
	}
	box := b.GlyphBounds(gid)
	w := &writer{}
	if len(g.Components) > 0 {
		w.i16(-1)
	} else {
		w.i16(int16(len(g.Contours)))
	}
	for _, v := range box {
		w.i16(v)
	}
	if len(g.Components) > 0 {
		encodeComponents(w, g.Components)
	} else {
		encodeContours(w, g.Contours)
	}
	return w.b, box, true
}

func encodeContours(w *writer, contours [][]Point) {
	end := -1
	for _, c := range contours {
		end += len(c)
		w.u16(uint16(end))
	}
	w.u16(0) // instructionLength
	var flags []byte
	var xs, ys writer
	var x, y int16
	for _, c := range contours {
		for _, p := range c {
			var f byte
			if p.OnCurve {
				f |= flagOnCurve
			}
			f |= coord(&xs, p.X-x, flagXShort, flagXSameSgn)
			f |= coord(&ys, p.Y-y, flagYShort, flagYSameSgn)
			x, y = p.X, p.Y
			flags = append(flags, f)
		}
	}
	// compress runs of equal flags with the repeat bit
	for i := 0; i < len(flags); {
		j := i + 1
		for j < len(flags) && flags[j] == flags[i] && j-i <= 255 {
			j++
		}
		if j-i > 2 {
			w.bytes([]byte{flags[i] | flagRepeat, byte(j - i - 1)})
		} else {
			w.bytes(flags[i:j])
		}
		i = j
	}
	w.bytes(xs.b)
	w.bytes(ys.b)
}

// coord writes a coordinate delta and returns the flags describing it.
func coord(w *writer, d int16, short, same byte) byte {
	switch {
	case d == 0:
		return same
	case d > 0 && d <= 255:
		w.b = append(w.b, byte(d))
		return short | same
	case d < 0 && d >= -255:
		w.b = append(w.b, byte(-d))
		return short
	}
	w.i16(d)
	return 0
}

func encodeComponents(w *writer, components []Component) {
	for i, c := range components {
		flags := uint16(compArgsAreWords)
		if !c.Anchor {
			flags |= compArgsAreXY
		}
		if i < len(components)-1 {
			flags |= compMoreComponents
		}
		switch len(c.Transform) {
		case 1:
			flags |= compHaveScale
		case 2:
			flags |= compHaveXYScale
		case 4:
			flags |= compHaveTwoByTwo
		}
		if c.Unscaled {
			flags |= compUnscaledOffsets
		}
		w.u16(flags)
		w.u16(c.Glyph)
		w.i16(c.DX)
		w.i16(c.DY)
		for _, v := range c.Transform {
			w.u16(f2dot14(v))
		}
	}
}
