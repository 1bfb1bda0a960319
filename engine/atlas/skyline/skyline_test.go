package skyline

import (
	"math/rand"
	"testing"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDisjoint(t *testing.T, rects []Rect, width, height int) {
	for i, r := range rects {
		assert.True(t, r.X >= 0 && r.Y >= 0 && r.X+r.W <= width && r.Y+r.H <= height,
			"rectangle %d %v outside of %d×%d", i, r, width, height)
		for j := i + 1; j < len(rects); j++ {
			assert.False(t, r.Overlaps(rects[j]), "%v overlaps %v", r, rects[j])
		}
	}
}

func TestPackRow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.sdf")
	defer teardown()
	//
	rects := []Rect{{W: 14, H: 14}, {W: 14, H: 14}}
	h, err := Pack(rects, 32)
	require.NoError(t, err)
	assert.Equal(t, 14, h)
	assert.Equal(t, Rect{W: 14, H: 14, X: 0, Y: 0}, rects[0])
	assert.Equal(t, Rect{W: 14, H: 14, X: 14, Y: 0}, rects[1])
	//
	rects = []Rect{{W: 20, H: 10}, {W: 20, H: 10}}
	h, err = Pack(rects, 32)
	require.NoError(t, err)
	assert.Equal(t, 20, h)
	assert.Equal(t, 10, rects[1].Y)
}

func TestPackFillsGaps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.sdf")
	defer teardown()
	//
	rects := []Rect{{W: 10, H: 30}, {W: 20, H: 10}, {W: 20, H: 10}, {W: 20, H: 10}}
	h, err := Pack(rects, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, h)
	assertDisjoint(t, rects, 30, h)
}

func TestPackRandom(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.sdf")
	defer teardown()
	//
	rnd := rand.New(rand.NewSource(4711))
	for round := 0; round < 20; round++ {
		rects := make([]Rect, 60)
		area := 0
		for i := range rects {
			rects[i] = Rect{W: 1 + rnd.Intn(40), H: 1 + rnd.Intn(40)}
			area += rects[i].W * rects[i].H
		}
		h, err := Pack(rects, 128)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, h*128, area)
		assertDisjoint(t, rects, 128, h)
		// packing is deterministic
		again := make([]Rect, len(rects))
		for i, r := range rects {
			again[i] = Rect{W: r.W, H: r.H}
		}
		h2, _ := Pack(again, 128)
		assert.Equal(t, h, h2)
		assert.Equal(t, rects, again)
	}
}

func TestPackTooWide(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.sdf")
	defer teardown()
	//
	_, err := Pack([]Rect{{W: 10, H: 10}, {W: 33, H: 1}}, 32)
	assert.Equal(t, core.ERANGE, core.Code(err))
	_, err = Pack([]Rect{{W: 1, H: 1}}, 0)
	assert.Error(t, err)
	h, err := Pack(nil, 32)
	assert.NoError(t, err)
	assert.Equal(t, 0, h)
}
