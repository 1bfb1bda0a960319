/*
Package otlang maps BCP 47 languages to OpenType script and language tags.

OpenType layout tables organize features by script and language system. A
font may, for example, switch off the 'fi' ligature for Turkish, where the
dotless i is a separate letter. Clients know the language of a text as a
BCP 47 tag (package golang.org/x/text/language); this package translates it
into the tags a font's layout tables are keyed by.

Scripts are mapped from their ISO 15924 code, see
https://unicode.org/iso15924/iso15924-codes.html. Languages are matched
against a list of supported languages with a confidence threshold.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otlang

import (
	"github.com/npillmayer/glyphatlas/core/font/opentype/ot"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// tracer writes to trace with key 'glyphatlas.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.fonts")
}

// ISO 15924 script code -> OpenType script tag
var script2opentype = map[string]string{
	"Zzzz": "DFLT", // unknown
	//
	"Arab": "arab", // Arabic
	"Armn": "armn", // Armenian
	"Beng": "bng2", // Bengali, not beng
	"Bopo": "bopo", // Bopomofo
	"Cher": "cher", // Cherokee
	"Copt": "copt", // Coptic
	"Cyrl": "cyrl", // Cyrillic
	"Deva": "dev2", // Devanagari, not deva
	"Ethi": "ethi", // Ethiopic
	"Geor": "geor", // Georgian
	"Grek": "grek", // Greek
	"Gujr": "gjr2", // Gujarati, not gujr
	"Guru": "gur2", // Gurmukhi, not guru
	"Hang": "hang", // Hangul
	"Hani": "hani", // Han
	"Hans": "hani", // Han (simplified)
	"Hant": "hani", // Han (traditional)
	"Hebr": "hebr", // Hebrew
	"Hira": "kana", // Hiragana shares the tag with Katakana
	"Jpan": "kana", // Japanese
	"Kana": "kana", // Katakana
	"Khmr": "khmr", // Khmer
	"Knda": "knd2", // Kannada, not knda
	"Kore": "hang", // Korean
	"Laoo": "lao ", // Lao
	"Latn": "latn", // Latin
	"Mlym": "mlm2", // Malayalam, not mlym
	"Mong": "mong", // Mongolian
	"Mymr": "mym2", // Myanmar, not mymr
	"Orya": "ory2", // Oriya, not orya
	"Sinh": "sinh", // Sinhala
	"Syrc": "syrc", // Syriac
	"Taml": "tml2", // Tamil, not taml
	"Telu": "tel2", // Telugu, not telu
	"Thaa": "thaa", // Thaana
	"Thai": "thai", // Thai
	"Tibt": "tibt", // Tibetan
	"Yiii": "yi  ", // Yi
}

// We do support this list of languages.
var supportedLanguages = map[language.Tag]string{
	language.Arabic:     "ARA",
	language.Chinese:    "ZHS",
	language.Dutch:      "NLD",
	language.English:    "ENG",
	language.French:     "FRA",
	language.Greek:      "ELL",
	language.German:     "DEU",
	language.Hebrew:     "IWR",
	language.Italian:    "ITA",
	language.Japanese:   "JAN",
	language.Polish:     "PLK",
	language.Portuguese: "PTG",
	language.Romanian:   "ROM",
	language.Russian:    "RUS",
	language.Spanish:    "ESP",
	language.Turkish:    "TRK",
}

// We will try to match a requested language against supported languages.
var supportedLanguagesMatcher language.Matcher

// supported holds the keys of supportedLanguages, in matcher order.
var supported []language.Tag

func init() {
	supported = make([]language.Tag, 0, len(supportedLanguages))
	for l := range supportedLanguages {
		supported = append(supported, l)
	}
	supportedLanguagesMatcher = language.NewMatcher(supported)
}

// ScriptTag returns the OpenType script tag for an ISO 15924 script. It
// returns ot.DFLT for unknown or unsupported scripts.
func ScriptTag(script language.Script) ot.Tag {
	if otScr, ok := script2opentype[script.String()]; ok {
		return ot.T(otScr)
	}
	return ot.DFLT
}

// LanguageTag returns the OpenType language tag for a BCP 47 language tag.
// If no supported language matches with a confidence of at least conf,
// ot.DFLT is returned.
func LanguageTag(lang language.Tag, conf language.Confidence) ot.Tag {
	_, inx, c := supportedLanguagesMatcher.Match(lang)
	l := supported[inx]
	tracer().Debugf("OpenType language matched %s (%s) : %s", display.English.Tags().Name(l),
		display.Self.Name(l), c)
	if c < conf { // if matcher's confidence level is not high enough
		return ot.DFLT
	}
	return ot.T(supportedLanguages[l])
}

// Tags returns the OpenType script and language tags for a BCP 47 language
// tag. The script is the one given in lang, or the most likely script for
// lang. Languages are matched with confidence language.High.
func Tags(lang language.Tag) (script ot.Tag, lng ot.Tag) {
	scr, _ := lang.Script()
	script = ScriptTag(scr)
	lng = LanguageTag(lang, language.High)
	tracer().Debugf("language %v maps to OpenType script %v, language %v", lang, script, lng)
	return script, lng
}
