package otlang

import (
	"testing"

	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestScriptTag(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	for iso, tag := range map[string]string{
		"Latn": "latn",
		"Cyrl": "cyrl",
		"Deva": "dev2",
		"Laoo": "lao ",
		"Zyyy": "DFLT",
	} {
		assert.Equal(t, ot.T(tag), ScriptTag(language.MustParseScript(iso)), iso)
	}
}

func TestLanguageTag(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	for bcp, tag := range map[string]string{
		"de":    "DEU",
		"de-CH": "DEU",
		"en-US": "ENG",
		"tr":    "TRK",
	} {
		assert.Equal(t, ot.T(tag), LanguageTag(language.Make(bcp), language.High), bcp)
	}
}

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	script, lang := Tags(language.Turkish)
	assert.Equal(t, ot.T("latn"), script)
	assert.Equal(t, ot.T("TRK"), lang)
	script, lang = Tags(language.Russian)
	assert.Equal(t, ot.T("cyrl"), script)
	assert.Equal(t, ot.T("RUS"), lang)
	script, _ = Tags(language.Make("sr-Cyrl"))
	assert.Equal(t, ot.T("cyrl"), script)
	script, lang = Tags(language.Japanese)
	assert.Equal(t, ot.T("kana"), script)
	assert.Equal(t, ot.T("JAN"), lang)
}
