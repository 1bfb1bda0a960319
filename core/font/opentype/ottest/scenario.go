package ottest

// Glyph indices of the fonts created by Scenario.
const (
	NotDef = iota
	GlyphF
	GlyphI
	GlyphA
	GlyphFI
)

// Metrics of the fonts created by Scenario, in font units.
const (
	ScenarioUnitsPerEm = 1000
	AdvanceF           = 300
	AdvanceI           = 250
	AdvanceA           = 500
	AdvanceFI          = 550
	KernFA             = -60
)

// Scenario returns a builder for a font with glyphs 'f', 'i' and 'a', a
// ligature 'fi' and a kerning pair 'f'+'a'. Glyph 0 ('.notdef') is a box with
// a rectangular hole.
// Clients may modify the builder before calling Build.
func Scenario() *Builder {
	b := New(ScenarioUnitsPerEm)
	b.AddGlyph(Glyph{
		Advance:  500,
		LSB:      50,
		Contours: [][]Point{Rect(50, 0, 450, 700), reverse(Rect(100, 50, 400, 650))},
	})
	b.AddGlyph(Glyph{ // f
		Advance: AdvanceF,
		LSB:     40,
		Contours: [][]Point{
			{On(40, 0), On(40, 600), Off(40, 700), On(140, 700), On(280, 700), On(280, 640),
				On(110, 640), On(110, 480), On(220, 480), On(220, 420), On(110, 420), On(110, 0)},
		},
	})
	b.AddGlyph(Glyph{ // i
		Advance:  AdvanceI,
		LSB:      90,
		Contours: [][]Point{Rect(90, 0, 160, 480), Rect(90, 560, 160, 640)},
	})
	b.AddGlyph(Glyph{ // a
		Advance: AdvanceA,
		LSB:     40,
		Contours: [][]Point{
			{On(40, 0), Off(40, 480), On(250, 480), Off(460, 480), On(460, 0)},
		},
	})
	b.AddGlyph(Glyph{ // f_i
		Advance: AdvanceFI,
		LSB:     40,
		Components: []Component{
			{Glyph: GlyphF},
			{Glyph: GlyphI, DX: 300},
		},
	})
	b.Map('f', GlyphF).Map('i', GlyphI).Map('a', GlyphA)
	b.Ligature(GlyphFI, GlyphF, GlyphI)
	b.Kern(GlyphF, GlyphA, KernFA)
	return b
}

func reverse(c []Point) []Point {
	r := make([]Point, len(c))
	for i, p := range c {
		r[len(c)-1-i] = p
	}
	return r
}
