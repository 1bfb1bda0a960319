package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/dimen"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
	"github.com/npillmayer/glyphatlas/core/font/opentype/otlayout"
	"github.com/npillmayer/glyphatlas/core/font/opentype/otquery"
	"github.com/npillmayer/glyphatlas/engine/atlas"
	"github.com/npillmayer/glyphatlas/engine/atlas/atlascache"
	"github.com/npillmayer/glyphatlas/engine/glyphing/glypher"
	"github.com/pterm/pterm"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
)

// Op is an operation of the interpreter.
type Op int

// Operations the interpreter understands.
const (
	QUIT Op = iota
	HELP
	FONT
	SIZE
	TABLES
	GLYPH
	METRICS
	OUTLINE
	SHAPE
	KERN
	SCRIPTS
	LANG
	ATLAS
)

var opNames = map[string]Op{
	"quit":    QUIT,
	"exit":    QUIT,
	"help":    HELP,
	"font":    FONT,
	"size":    SIZE,
	"tables":  TABLES,
	"glyph":   GLYPH,
	"metrics": METRICS,
	"outline": OUTLINE,
	"shape":   SHAPE,
	"kern":    KERN,
	"scripts": SCRIPTS,
	"lang":    LANG,
	"atlas":   ATLAS,
}

// Command is an operation together with its arguments.
type Command struct {
	op   Op
	args []string
	rest string // text following the command word, verbatim
}

func parseCommand(line string) (*Command, error) {
	line = strings.TrimSpace(line)
	word, rest, _ := strings.Cut(line, " ")
	op, ok := opNames[strings.ToLower(word)]
	if !ok {
		return nil, core.Error(core.EINVALID, "unknown command %q, try 'help'", word)
	}
	tracer().Debugf("parse command = %s %q", word, rest)
	return &Command{op: op, args: strings.Fields(rest), rest: rest}, nil
}

// arity checks that a command has between min and max arguments.
func (cmd *Command) arity(min, max int) error {
	if len(cmd.args) < min || len(cmd.args) > max {
		return core.Error(core.EINVALID, "wrong number of arguments, try 'help'")
	}
	return nil
}

func (intp *Intp) execute(cmd *Command) (bool, error) {
	switch cmd.op {
	case QUIT:
		return true, nil
	case HELP:
		help()
	case FONT:
		if err := cmd.arity(1, 1); err != nil {
			return false, err
		}
		return false, intp.loadFont(cmd.args[0])
	case SIZE:
		if len(cmd.args) == 1 {
			d, err := dimen.ParseDimen(cmd.args[0])
			if err != nil {
				return false, err
			}
			intp.emSize = d
		}
		pterm.Printfln("em size is %.2fpt = %.2fpx at %.0f dpi", intp.emSize.Points(), intp.pixels(), intp.dpi)
	case TABLES:
		intp.tables()
	case GLYPH:
		if err := cmd.arity(1, 1); err != nil {
			return false, err
		}
		r, _ := utf8.DecodeRuneInString(cmd.args[0])
		return false, intp.glyph(r)
	case METRICS:
		if err := cmd.arity(0, 1); err != nil {
			return false, err
		}
		if len(cmd.args) == 0 {
			m := otquery.FontMetrics(intp.font.OT)
			pterm.Printfln("units/em = %d, ascent = %d, descent = %d, max advance = %d, %d glyphs",
				m.UnitsPerEm, m.Ascent, m.Descent, m.MaxAdvance, m.NumGlyphs)
			return false, nil
		}
		gid, err := glyphArg(cmd.args[0])
		if err != nil {
			return false, err
		}
		return false, intp.glyphMetrics(gid)
	case OUTLINE:
		if err := cmd.arity(1, 1); err != nil {
			return false, err
		}
		gid, err := glyphArg(cmd.args[0])
		if err != nil {
			return false, err
		}
		return false, intp.outline(gid)
	case SHAPE:
		if cmd.rest == "" {
			return false, core.Error(core.EINVALID, "nothing to shape")
		}
		return false, intp.shape(cmd.rest)
	case KERN:
		if err := cmd.arity(2, 2); err != nil {
			return false, err
		}
		return false, intp.kern(cmd.args[0], cmd.args[1])
	case SCRIPTS:
		return false, intp.scripts()
	case LANG:
		if err := cmd.arity(1, 1); err != nil {
			return false, err
		}
		return false, intp.selectLanguage(cmd.args[0])
	case ATLAS:
		if err := cmd.arity(2, 2); err != nil {
			return false, err
		}
		_, err := intp.atlas(cmd.args[0], cmd.args[1])
		return false, err
	}
	return false, nil
}

func glyphArg(arg string) (ot.GlyphIndex, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n > 0xffff {
		return 0, core.Error(core.EINVALID, "not a glyph index: %q", arg)
	}
	return ot.GlyphIndex(n), nil
}

func (intp *Intp) tables() {
	otf := intp.font.OT
	data := pterm.TableData{{"Tag", "Offset", "Size"}}
	for _, tag := range otf.TableTags() {
		rec, _ := otf.TableRecord(tag)
		data = append(data, []string{tag.String(), strconv.Itoa(int(rec.Offset)), strconv.Itoa(int(rec.Length))})
	}
	pterm.Printfln("%s font %s, layout tables %v", otquery.FontType(otf), intp.font.Name(),
		otquery.LayoutTables(otf))
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
}

func (intp *Intp) glyph(r rune) error {
	gid, ok := intp.font.GlyphIndex(r)
	if !ok {
		pterm.Warning.Printfln("font has no glyph for %q, using .notdef", r)
	}
	pterm.Printfln("%q (U+%04X) -> glyph %d", r, r, gid)
	return intp.glyphMetrics(gid)
}

func (intp *Intp) glyphMetrics(gid ot.GlyphIndex) error {
	m, err := otquery.GlyphMetrics(intp.font.OT, gid)
	if err != nil {
		return err
	}
	pterm.Printfln("glyph %d: advance = %d, lsb = %d, rsb = %d, bbox = (%d,%d)-(%d,%d)", gid,
		m.Advance, m.LSB, m.RSB, m.BBox.MinX, m.BBox.MinY, m.BBox.MaxX, m.BBox.MaxY)
	return nil
}

func (intp *Intp) outline(gid ot.GlyphIndex) error {
	segs, bounds, err := intp.font.Outline(gid)
	if err != nil {
		return err
	}
	pterm.Printfln("glyph %d: %d segments, bounds %v", gid, len(segs), bounds)
	for i, s := range segs {
		pterm.Printfln("%4d  %v", i, s)
	}
	return nil
}

func (intp *Intp) shape(text string) error {
	seq, err := glypher.TextSet(intp.font, text, intp.pixels(), fixed.Point26_6{})
	if err != nil {
		return err
	}
	data := pterm.TableData{{"GID", "Char", "Cluster", "Pen", "Advance"}}
	for _, g := range seq.Glyphs {
		data = append(data, []string{
			strconv.Itoa(int(g.GID)),
			fmt.Sprintf("%q", g.CodePoint),
			strconv.Itoa(g.ClusterID),
			fmt.Sprintf("%.2f", float64(g.Pen.X)/64),
			fmt.Sprintf("%.2f", float64(g.Advance)/64),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
	pterm.Printfln("%d glyphs, total advance %.2fpx", len(seq.Glyphs), float64(seq.Advance)/64)
	return nil
}

func (intp *Intp) kern(a, b string) error {
	ra, _ := utf8.DecodeRuneInString(a)
	rb, _ := utf8.DecodeRuneInString(b)
	ga, _ := intp.font.GlyphIndex(ra)
	gb, _ := intp.font.GlyphIndex(rb)
	k, ok, err := intp.font.LookupKerning(ga, gb)
	if err != nil {
		return err
	}
	if !ok {
		pterm.Printfln("no kerning for %q %q (glyphs %d, %d)", ra, rb, ga, gb)
		return nil
	}
	pterm.Printfln("kerning %q %q (glyphs %d, %d) = %d units", ra, rb, ga, gb, k)
	return nil
}

func (intp *Intp) scripts() error {
	for _, typ := range []otlayout.LayoutTagType{otlayout.GSubFeatureType, otlayout.GPosFeatureType} {
		scripts, err := otlayout.FontScripts(intp.font.OT, typ)
		if err != nil {
			return err
		}
		if len(scripts) == 0 {
			pterm.Printfln("%v: no scripts", typ)
			continue
		}
		for _, scr := range scripts {
			features, _, err := otlayout.FontFeatures(intp.font.OT, typ, scr, 0)
			if err != nil {
				return err
			}
			pterm.Printfln("%v: script %v, features %v", typ, scr, features)
		}
	}
	return nil
}

func (intp *Intp) selectLanguage(bcp47 string) error {
	lang, err := language.Parse(bcp47)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "not a language: %q", bcp47)
	}
	f, err := intp.font.ForLanguage(lang)
	if err != nil {
		return err
	}
	intp.font = f
	pterm.Printfln("layout features for %v: script %v, language %v", lang, f.Script, f.Language)
	return nil
}

// atlas builds an atlas for the characters in chars at the current em size
// and writes it to a PNG file. Atlases are cached in the user's cache
// directory, keyed by font, characters, size and configuration.
func (intp *Intp) atlas(chars, path string) (*atlas.Atlas, error) {
	config, err := atlas.ConfigFromSettings(intp.conf)
	if err != nil {
		return nil, err
	}
	key := atlascache.Key(intp.font.Name(), chars, intp.pixels(), config)
	cache, err := atlascache.Open(intp.conf)
	if err != nil {
		tracer().Infof("atlas cache not available: %v", err)
	}
	var a *atlas.Atlas
	if cache != nil {
		var found bool
		if a, found, err = cache.Load(key); err != nil {
			tracer().Errorf("ignoring atlas cache entry: %v", err)
		} else if found {
			pterm.Info.Printfln("using cached atlas %s", key)
		}
	}
	if a == nil {
		shapes, _, err := atlas.GlyphShapes(intp.font, []rune(chars), intp.pixels())
		if err != nil {
			return nil, err
		}
		spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("building atlas for %d glyphs", len(shapes)))
		a, err = atlas.BuildAsync(context.Background(), shapes, config).Atlas()
		if spinner != nil {
			_ = spinner.Stop()
		}
		if err != nil {
			return nil, err
		}
		if cache != nil {
			if err := cache.Store(key, a); err != nil {
				tracer().Errorf("cannot cache atlas: %v", err)
			}
		}
	}
	if err := writePNG(a, path); err != nil {
		return nil, err
	}
	pterm.Printfln("%v written to %s", a, path)
	return a, nil
}

func writePNG(a *atlas.Atlas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot create %s", path)
	}
	defer f.Close()
	if err := png.Encode(f, a.Image()); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot encode %s", path)
	}
	return nil
}

func help() {
	pterm.Info.Println("Commands")
	pterm.Println(`
	font <name|path>       load a font
	size [<dimen>]         show or set the em size, e.g. 'size 12pt'
	tables                 list the font's tables
	glyph <char>           show the glyph for a character
	metrics [<gid>]        show font metrics, or metrics of a glyph
	outline <gid>          list the outline segments of a glyph
	shape <text>           shape text with ligatures and kerning
	kern <a> <b>           show kerning between two characters
	scripts                list scripts and features of GSUB and GPOS
	lang <bcp47>           select layout features for a language, e.g. 'lang tr'
	atlas <chars> <file>   build an SDF atlas and write it as PNG
	quit                   leave the CLI
	`)
}
