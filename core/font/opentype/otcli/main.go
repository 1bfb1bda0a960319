/*
Command otcli is an interactive explorer for OpenType fonts.

It loads a font by name or by path, and offers commands to inspect the
font's tables, glyphs, metrics and layout features, to shape text and to
generate signed distance field atlases for a set of characters.

	otcli -font Go -size 32px

Settings are read from a NestedText file 'glyphatlas.nt' at the usual
configuration locations. Keys of interest are 'atlas.width',
'atlas.sdf-width', 'atlas.oversample', 'atlas.density', 'atlas.workers',
'fontconfig' and 'trace.glyphatlas.*'.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/knadh/koanf"
	"github.com/npillmayer/glyphatlas/core/dimen"
	"github.com/npillmayer/glyphatlas/core/font"
	"github.com/npillmayer/glyphatlas/core/locate/resources"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	xfont "golang.org/x/image/font"
)

// tracer traces with key 'glyphatlas.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.fonts")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", font.FallbackFontName, "Font to load, by name or path")
	size := flag.String("size", "32px", "Em size for shaping and atlas generation")
	dpi := flag.Float64("dpi", 72, "Resolution for sizes given in physical units")
	flag.Parse()

	// set up configuration and logging
	conf := setupConfig(*tlevel)
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	pterm.Info.Println("Welcome to OpenType CLI") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up REPL
	repl, err := readline.New("ot > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp := newIntp(conf)
	intp.repl = repl
	intp.dpi = *dpi
	if intp.emSize, err = dimen.ParseDimen(*size); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(2)
	}
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()                             // go into interactive mode
}

// setupConfig creates a koanf-backed configuration, initialized from
// 'glyphatlas.nt' if present.
func setupConfig(tlevel string) *koanfadapter.KConf {
	conf := koanfadapter.New(koanf.New("."), "glyphatlas", []string{"nt"})
	conf.InitDefaults()
	conf.Set("app-key", "glyphatlas")
	for _, key := range []string{"fonts", "text", "sdf", "geom", "resources"} {
		k := "trace.glyphatlas." + key
		if !conf.IsSet(k) {
			conf.Set(k, tlevel)
		}
	}
	return conf
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	conf   schuko.Configuration
	repl   *readline.Instance
	font   *font.FontFile
	emSize dimen.Dimen
	dpi    float64
}

func newIntp(conf schuko.Configuration) *Intp {
	return &Intp{
		conf:   conf,
		emSize: dimen.MustParse("32px"),
		dpi:    72,
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		quit, err := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// loadFont resolves a font by name or path. If the font cannot be found,
// the fallback font is used and a warning is printed.
func (intp *Intp) loadFont(fontname string) error {
	promise := resources.ResolveFontFile(intp.conf, fontname, xfont.StyleNormal, xfont.WeightNormal)
	f, err := promise.Await(context.Background())
	if f == nil {
		return err
	}
	if err != nil {
		pterm.Warning.Printfln("%v, using %s", err, f.Name())
	}
	intp.font = f
	pterm.Printfln("font %s: tables %v", f.Name(), f.OT.TableTags())
	return nil
}

// pixels returns the current em size in pixels.
func (intp *Intp) pixels() float64 {
	return intp.emSize.Pixels(intp.dpi)
}
