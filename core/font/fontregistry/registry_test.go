package fontregistry

import (
	"errors"
	"testing"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font"
	"github.com/npillmayer/glyphatlas/core/font/opentype/ottest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
)

type sw struct {
	s xfont.Style
	w xfont.Weight
}

func TestGuess(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	for k, v := range map[string]sw{
		"fonts/Clarendon-bold.ttf":               {xfont.StyleNormal, xfont.WeightBold},
		"Microsoft/Gill Sans MT Bold Italic.ttf": {xfont.StyleItalic, xfont.WeightBold},
		"Cambria Math.ttf":                       {xfont.StyleNormal, xfont.WeightNormal},
		"GentiumPlus-I.ttf":                      {xfont.StyleItalic, xfont.WeightNormal},
	} {
		style, weight := GuessStyleAndWeight(k)
		if style != v.s || weight != v.w {
			t.Errorf("expected different style or weight for %s", k)
		}
	}
}

func TestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	if !Matches("fonts/Clarendon-bold.ttf",
		"clarendon", xfont.StyleNormal, xfont.WeightBold) {
		t.Errorf("expected match for Clarendon, haven't")
	}
	if !Matches("Microsoft/Gill Sans MT Bold Italic.ttf",
		"gill sans", xfont.StyleItalic, xfont.WeightBold) {
		t.Errorf("expected match for Gill, haven't")
	}
	files := []string{
		"/fonts/GentiumPlus-I.ttf",
		"/fonts/Gentium-bold.ttf",
		"/fonts/GentiumPlus-R.ttf",
		"/fonts/Arial.ttf",
	}
	m, c := ClosestMatch(files, "gentium", xfont.StyleNormal, xfont.WeightNormal)
	assert.Equal(t, "/fonts/GentiumPlus-R.ttf", m)
	assert.Equal(t, PerfectConfidence, c)
	m, c = ClosestMatch(files, "gentium", xfont.StyleItalic, xfont.WeightBold)
	assert.Equal(t, "/fonts/Gentium-bold.ttf", m, "weight should be preferred over style")
	assert.Equal(t, HighConfidence, c)
	_, c = ClosestMatch(files, "helvetica", xfont.StyleNormal, xfont.WeightNormal)
	assert.Equal(t, NoConfidence, c)
}

func TestNormalizeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	n := NormalizeFontname("Clarendon", xfont.StyleItalic, xfont.WeightBold)
	assert.Equal(t, "clarendon-italic-bold", n)
	n = NormalizeFontname(" Gill Sans.ttf", xfont.StyleNormal, xfont.WeightNormal)
	assert.Equal(t, "gill_sans", n)
}

func TestRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	fr := NewRegistry()
	f, err := font.Load("scenario", ottest.Scenario().Build())
	require.NoError(t, err)
	fr.StoreFont("scenario", f)
	fr.StoreFont("scenario", font.FallbackFont()) // does not override
	fr.StoreFont("nil", nil)
	g, err := fr.Font("scenario")
	require.NoError(t, err)
	assert.Same(t, f, g)
	g, err = fr.Font("helvetica")
	assert.True(t, errors.Is(err, core.ErrMissing))
	assert.Same(t, font.FallbackFont(), g)
	assert.Equal(t, []string{"scenario"}, fr.Names())
	fr.LogFontList()
	assert.NotNil(t, GlobalRegistry())
}
