package fontregistry

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
)

// Registry is a type for holding information about loaded fonts.
type Registry struct {
	sync.Mutex
	fonts map[string]*font.FontFile
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold information about
// loaded fonts.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty font registry.
func NewRegistry() *Registry {
	return &Registry{fonts: make(map[string]*font.FontFile)}
}

// StoreFont pushes a font into the registry if it isn't contained yet.
//
// The font will be stored using the normalized font name as a key. If this
// key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(normalizedName string, f *font.FontFile) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[normalizedName]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, normalizedName)
		fr.fonts[normalizedName] = f
	}
}

// Font returns the font stored under key normalizedName.
//
// If no such font has been stored, Font will return the system-wide fallback
// font, together with an error with code core.EMISSING.
func (fr *Registry) Font(normalizedName string) (*font.FontFile, error) {
	tracer().Debugf("registry searches for font %s", normalizedName)
	fr.Lock()
	defer fr.Unlock()
	if f, ok := fr.fonts[normalizedName]; ok {
		return f, nil
	}
	tracer().Infof("registry does not contain font %s", normalizedName)
	return font.FallbackFont(), core.Error(core.EMISSING, "font %s not found in registry", normalizedName)
}

// LogFontList is a helper function to dump the list of known fonts in a
// registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	fr.Lock()
	defer fr.Unlock()
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for _, k := range fr.names() {
		tracer().Infof("font [%s] = %v", k, fr.fonts[k].Fontname)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

// Names returns the keys of all registered fonts, sorted.
func (fr *Registry) Names() []string {
	fr.Lock()
	defer fr.Unlock()
	return fr.names()
}

func (fr *Registry) names() []string {
	keys := make([]string, 0, len(fr.fonts))
	for k := range fr.fonts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NormalizeFontname creates a registry key from a font name (or a font file
// name), a style and a weight.
func NormalizeFontname(fname string, style xfont.Style, weight xfont.Weight) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	switch style {
	case xfont.StyleItalic, xfont.StyleOblique:
		fname += "-italic"
	}
	switch weight {
	case xfont.WeightLight, xfont.WeightExtraLight:
		fname += "-light"
	case xfont.WeightBold, xfont.WeightExtraBold, xfont.WeightSemiBold:
		fname += "-bold"
	}
	return fname
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "xbold", "black":
			return xfont.StyleNormal, xfont.WeightExtraBold
		case "italic", "i":
			return xfont.StyleItalic, xfont.WeightNormal
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontfilename, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontfilename, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}

// MatchConfidence is a type for expressing the confidence level of font matching.
type MatchConfidence int

// Levels of confidence for matching a font file.
const (
	NoConfidence      MatchConfidence = 0
	LowConfidence     MatchConfidence = 2
	HighConfidence    MatchConfidence = 3
	PerfectConfidence MatchConfidence = 4
)

// Match rates a font file name for a name pattern, a style and a weight.
// The base name of the file has to contain the pattern, otherwise
// NoConfidence is returned. Style and weight are guessed from the file name.
func Match(fontfilename, pattern string, style xfont.Style, weight xfont.Weight) MatchConfidence {
	basename := path.Base(fontfilename)
	basename = strings.ToLower(basename[:len(basename)-len(path.Ext(basename))])
	if !strings.Contains(basename, strings.ToLower(pattern)) {
		return NoConfidence
	}
	s, w := GuessStyleAndWeight(basename)
	switch {
	case s == style && w == weight:
		return PerfectConfidence
	case w == weight:
		return HighConfidence
	case s == style:
		return LowConfidence
	}
	return NoConfidence
}

// Matches returns true if a font's filename contains pattern and indicators
// for a given style and weight.
func Matches(fontfilename, pattern string, style xfont.Style, weight xfont.Weight) bool {
	return Match(fontfilename, pattern, style, weight) == PerfectConfidence
}

// ClosestMatch scans a list of font file names and returns the closest match
// for a given set of parameters. Of files with equal confidence, the first one
// wins. If no file matches, returns NoConfidence.
func ClosestMatch(fontfiles []string, pattern string, style xfont.Style,
	weight xfont.Weight) (match string, confidence MatchConfidence) {
	//
	for _, f := range fontfiles {
		if c := Match(f, pattern, style, weight); c > confidence {
			match, confidence = f, c
		}
	}
	tracer().Debugf("closest match for %s is %q", pattern, match)
	return
}
