package atlascache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/curve/svgpath"
	"github.com/npillmayer/glyphatlas/engine/atlas"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAtlas(t *testing.T) *atlas.Atlas {
	shapes := []atlas.Shape{
		{Name: "square", Outline: svgpath.MustParse("M0 0 H10 V10 H0 Z")},
		{Name: "triangle", Outline: svgpath.MustParse("M0 0 L12 0 L6 9 Z"), Padding: 1},
		{Name: "space"},
	}
	config := atlas.DefaultConfig()
	config.Width, config.SDFWidth = 40, 2
	a, err := atlas.Build(shapes, config)
	require.NoError(t, err)
	return a
}

func TestStoreAndLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.sdf")
	defer teardown()
	//
	cache := &Cache{Dir: t.TempDir()}
	a := buildAtlas(t)
	key := Key("shapes", 40, 2.0)
	assert.Len(t, key, 32)
	assert.Equal(t, key, Key("shapes", 40, 2.0))
	assert.NotEqual(t, key, Key("shapes", 40, 3.0))
	//
	_, found, err := cache.Load(key)
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, cache.Store(key, a))
	b, found, err := cache.Load(key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, a.Width, b.Width)
	assert.Equal(t, a.Height, b.Height)
	assert.Equal(t, a.Pix, b.Pix)
	assert.Equal(t, a.Regions, b.Regions)
	assert.Equal(t, a.Config, b.Config)
}

func TestDamagedEntry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.sdf")
	defer teardown()
	//
	cache := &Cache{Dir: t.TempDir()}
	require.NoError(t, cache.Store("k", buildAtlas(t)))
	require.NoError(t, os.WriteFile(filepath.Join(cache.Dir, "k.png"), []byte("no png"), 0644))
	_, _, err := cache.Load("k")
	assert.Equal(t, core.EINVALID, core.Code(err))
	require.NoError(t, os.WriteFile(filepath.Join(cache.Dir, "k.json"), []byte("{"), 0644))
	_, _, err = cache.Load("k")
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestStoreEmptyAtlas(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.sdf")
	defer teardown()
	//
	config := atlas.DefaultConfig()
	config.Width = 40
	a, err := atlas.Build([]atlas.Shape{{Name: "space"}, {Name: "tab"}}, config)
	require.NoError(t, err)
	require.Equal(t, 0, a.Height)
	cache := &Cache{Dir: t.TempDir()}
	err = cache.Store("empty", a)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, found, err := cache.Load("empty")
	assert.NoError(t, err)
	assert.False(t, found, "nothing must be written for an empty atlas")
}

func TestOpenInUserCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.sdf")
	defer teardown()
	//
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	cache, err := Open(testconfig.Conf{"app-key": "glyphatlas-test"})
	require.NoError(t, err)
	assert.Equal(t, "atlas", filepath.Base(cache.Dir))
	_, err = os.Stat(cache.Dir)
	assert.NoError(t, err)
}
