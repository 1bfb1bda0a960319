package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/dimen"
	"github.com/npillmayer/glyphatlas/core/font"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIntp(t *testing.T) *Intp {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	intp := newIntp(testconfig.Conf{
		"app-key":     "glyphatlas-test",
		"atlas.width": "256",
	})
	intp.font = font.FallbackFont()
	return intp
}

func run(t *testing.T, intp *Intp, line string) (bool, error) {
	cmd, err := parseCommand(line)
	require.NoError(t, err, line)
	return intp.execute(cmd)
}

func TestParseCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	cmd, err := parseCommand("  shape  fine   print")
	require.NoError(t, err)
	assert.Equal(t, SHAPE, cmd.op)
	assert.Equal(t, []string{"fine", "print"}, cmd.args)
	assert.Equal(t, " fine   print", cmd.rest)
	cmd, err = parseCommand("QUIT")
	require.NoError(t, err)
	assert.Equal(t, QUIT, cmd.op)
	_, err = parseCommand("frobnicate 3")
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestInspectionCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	intp := testIntp(t)
	for _, line := range []string{
		"help", "tables", "glyph a", "metrics", "metrics 3", "outline 3",
		"shape fine print", "kern A V", "scripts", "size", "lang tr",
	} {
		quit, err := run(t, intp, line)
		assert.NoError(t, err, line)
		assert.False(t, quit, line)
	}
	for _, line := range []string{"glyph", "metrics x", "outline 99999", "kern A", "shape", "size 12qq", "lang !!"} {
		_, err := run(t, intp, line)
		assert.Error(t, err, line)
	}
	quit, err := run(t, intp, "quit")
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestSizeCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	intp := testIntp(t)
	_, err := run(t, intp, "size 1in")
	require.NoError(t, err)
	assert.Equal(t, dimen.IN, intp.emSize)
	assert.InDelta(t, 72.0, intp.pixels(), 1e-9)
	intp.dpi = 96
	assert.InDelta(t, 96.0, intp.pixels(), 1e-9)
}

func TestAtlasCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	intp := testIntp(t)
	intp.emSize = dimen.MustParse("16px")
	path := filepath.Join(t.TempDir(), "atlas.png")
	a, err := intp.atlas("abc", path)
	require.NoError(t, err)
	assert.Equal(t, 256, a.Width)
	assert.Len(t, a.Regions, 3)
	//
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, a.Width, img.Bounds().Dx())
	assert.Equal(t, a.Height, img.Bounds().Dy())
	//
	// a second run is served from the cache
	cached, err := intp.atlas("abc", filepath.Join(t.TempDir(), "again.png"))
	require.NoError(t, err)
	assert.Equal(t, a.Pix, cached.Pix)
	assert.Equal(t, a.Regions, cached.Regions)
}
