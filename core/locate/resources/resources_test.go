package resources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// sandbox points the user's cache and config directories to temporary
// folders.
func sandbox(t *testing.T) testconfig.Conf {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	return testconfig.Conf{"app-key": "glyphatlas-test"}
}

func TestCacheDirPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.resources")
	defer teardown()
	//
	conf := sandbox(t)
	base, err := os.UserCacheDir()
	require.NoError(t, err)
	dir, err := CacheDirPath(conf, "atlas", "fonts")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "glyphatlas-test", "atlas", "fonts"), dir)
	fi, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	//
	_, err = CacheDirPath(testconfig.Conf{}, "atlas")
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestFontConfigList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.resources")
	defer teardown()
	//
	conf := sandbox(t)
	_, err := findFontConfigBinary(conf)
	assert.Equal(t, core.EMISSING, core.Code(err))
	conf["fontconfig"] = "bin/fc-list"
	_, err = findFontConfigBinary(conf)
	assert.Equal(t, core.EINVALID, core.Code(err))
	delete(conf, "fontconfig")
	_, err = loadFontConfigList(conf)
	assert.Error(t, err, "neither list nor binary present")
	//
	uconfdir, err := os.UserConfigDir()
	require.NoError(t, err)
	dir := filepath.Join(uconfdir, "glyphatlas-test")
	require.NoError(t, os.MkdirAll(dir, 0755))
	list := strings.Join([]string{
		"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf: DejaVu Sans:style=Bold",
		"/usr/share/fonts/noto/NotoSansCJK-Regular.ttc: Noto Sans CJK JP:style=Regular",
		"garbage",
		"/usr/share/fonts/OTF/SourceSerif4-Italic.otf: Source Serif 4:style=Italic",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fontlist.txt"), []byte(list), 0644))
	files, err := loadFontConfigList(conf)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
		"/usr/share/fonts/OTF/SourceSerif4-Italic.otf",
	}, files)
}

func TestResolveFallbackFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.resources")
	defer teardown()
	//
	conf := sandbox(t)
	f, err := ResolveFontFile(conf, "Go", xfont.StyleNormal, xfont.WeightNormal).FontFile()
	require.NoError(t, err)
	assert.Same(t, font.FallbackFont(), f)
}

func TestResolveFontByPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.resources")
	defer teardown()
	//
	conf := sandbox(t)
	path := filepath.Join(t.TempDir(), "MyGo-Regular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0644))
	f, err := ResolveFontFile(conf, path, xfont.StyleNormal, xfont.WeightNormal).FontFile()
	require.NoError(t, err)
	assert.NotSame(t, font.FallbackFont(), f)
	assert.Equal(t, path, f.Filepath)
	assert.Equal(t, "Go Regular", f.Name())
	again, err := ResolveFontFile(conf, path, xfont.StyleNormal, xfont.WeightNormal).FontFile()
	require.NoError(t, err)
	assert.Same(t, f, again, "second lookup is served by the registry")
}

func TestResolveMissingFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.resources")
	defer teardown()
	//
	conf := sandbox(t)
	f, err := ResolveFontFile(conf, "no-such-font-4711", xfont.StyleItalic, xfont.WeightBold).FontFile()
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Same(t, font.FallbackFont(), f)
}
