package resources

import (
	"context"
	"os"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font"
	"github.com/npillmayer/glyphatlas/core/font/fontregistry"
	"github.com/npillmayer/schuko"
	xfont "golang.org/x/image/font"
)

// NotFound returns an application error for a missing font.
func NotFound(name string) error {
	return core.Error(core.EMISSING, "font not found: %s", name)
}

type fontPlusErr struct {
	font *font.FontFile
	err  error
}

// FontPromise is a handle to a font being located and loaded.
type FontPromise interface {
	FontFile() (*font.FontFile, error)                 // waits for loading
	Await(ctx context.Context) (*font.FontFile, error) // waits for loading or for ctx
}

type fontLoader struct {
	done   chan struct{}
	result *fontPlusErr
}

func (loader fontLoader) FontFile() (*font.FontFile, error) {
	return loader.Await(context.Background())
}

func (loader fontLoader) Await(ctx context.Context) (*font.FontFile, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-loader.done:
		return loader.result.font, loader.result.err
	}
}

// ResolveFontFile locates and loads a font in the background. Fonts are
// searched for
//
// ▪︎ in the global font registry,
//
// ▪︎ as the built-in fallback font (name "Go"),
//
// ▪︎ as a file, if name is a path to an existing file,
//
// ▪︎ among the system's fonts, and the fonts listed by fontconfig (if
// configured with key 'fontconfig').
//
// Loaded fonts are stored in the global font registry. If no font is found,
// the promise delivers the fallback font, together with an error of code
// core.EMISSING.
func ResolveFontFile(conf schuko.Configuration, name string, style xfont.Style, weight xfont.Weight) FontPromise {
	conf = settings(conf)
	loader := fontLoader{done: make(chan struct{}), result: &fontPlusErr{}}
	go func() {
		defer close(loader.done)
		loader.result.font, loader.result.err = resolveFontFile(conf, name, style, weight)
	}()
	return loader
}

func resolveFontFile(conf schuko.Configuration, name string, style xfont.Style, weight xfont.Weight) (*font.FontFile, error) {
	registry := fontregistry.GlobalRegistry()
	key := fontregistry.NormalizeFontname(name, style, weight)
	if f, err := registry.Font(key); err == nil {
		return f, nil
	}
	if key == fontregistry.NormalizeFontname(font.FallbackFontName, xfont.StyleNormal, xfont.WeightNormal) {
		f := font.FallbackFont()
		registry.StoreFont(key, f)
		return f, nil
	}
	fpath := ""
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		fpath = name
	} else {
		candidates := append(findfont.List(), fontConfigFontFiles(conf)...)
		match, confidence := fontregistry.ClosestMatch(candidates, name, style, weight)
		if confidence > fontregistry.NoConfidence {
			tracer().Debugf("%s is a system font, confidence %d", match, confidence)
			fpath = match
		} else if p, err := findfont.Find(name); err == nil {
			fpath = p
		}
	}
	if fpath == "" {
		tracer().Infof("font %s not found, using fallback font", name)
		return font.FallbackFont(), NotFound(name)
	}
	f, err := font.Open(fpath)
	if err != nil {
		return font.FallbackFont(), err
	}
	registry.StoreFont(key, f)
	return f, nil
}
