package dimen

import (
	"testing"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestParseDimen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.core")
	defer teardown()
	//
	for input, want := range map[string]Dimen{
		"12px":  12 * BP,
		"12PX":  12 * BP,
		"0":     0,
		"100":   100 * SP,
		"10pt":  10 * PT,
		"1in":   IN,
		"0.5in": IN / 2,
		".5bp":  BP / 2,
		"-2mm":  -2 * MM,
	} {
		d, err := ParseDimen(input)
		if assert.NoError(t, err, input) {
			assert.Equal(t, want, d, input)
		}
	}
	for _, input := range []string{"", "px", "12 px", "12qq", "1.2.3pt", "99999in"} {
		_, err := ParseDimen(input)
		assert.Error(t, err, input)
	}
	_, err := ParseDimen("12qq")
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = ParseDimen("99999in")
	assert.Equal(t, core.ERANGE, core.Code(err))
	assert.Panics(t, func() { MustParse("x") })
}

func TestPixels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.core")
	defer teardown()
	//
	assert.InDelta(t, 12.0, MustParse("12px").Pixels(72), 1e-9)
	assert.InDelta(t, 24.0, MustParse("12px").Pixels(144), 1e-9)
	assert.InDelta(t, 96.0, IN.Pixels(96), 1e-9)
	assert.InDelta(t, 12.0, MustParse("12bp").Pixels(0), 1e-9)
	assert.InDelta(t, 12.0, MustParse("12bp").Points(), 1e-9)
}
