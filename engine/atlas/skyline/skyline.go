/*
Package skyline packs rectangles into a strip of fixed width.

The packer keeps track of the upper contour of all rectangles placed so far,
the "skyline", as a list of horizontal segments. Each new rectangle is placed
at the lowest position the skyline allows, preferring narrow gaps on ties
(bottom-left, best fit).

Packing is deterministic: the same rectangles in the same order always
result in the same positions.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package skyline

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.sdf'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.sdf")
}

// Rect is a rectangle to pack. W and H are input, X and Y are set by Pack.
type Rect struct {
	W, H int
	X, Y int
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d×%d @ %d,%d]", r.W, r.H, r.X, r.Y)
}

// Overlaps is true if r and s share at least one pixel.
func (r Rect) Overlaps(s Rect) bool {
	return r.X < s.X+s.W && s.X < r.X+r.W && r.Y < s.Y+s.H && s.Y < r.Y+r.H
}

// node is a horizontal segment of the skyline
type node struct {
	x, y, w int
}

// Pack places rectangles into a strip of the given width and returns the
// height needed. Positions are written to the rectangles' X and Y fields.
// Taller rectangles are placed first; rectangles of equal height keep their
// order.
//
// Rectangles wider than the strip make packing fail with an error of code
// core.ERANGE, in which case no positions are valid.
func Pack(rects []Rect, width int) (int, error) {
	if width <= 0 {
		return 0, core.Error(core.ERANGE, "skyline width must be positive, is %d", width)
	}
	order := make([]int, len(rects))
	for i, r := range rects {
		if r.W < 0 || r.H < 0 {
			return 0, core.Error(core.ERANGE, "rectangle %d has negative size %v", i, r)
		}
		if r.W > width {
			return 0, core.Error(core.ERANGE, "rectangle %d of width %d exceeds width %d", i, r.W, width)
		}
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return rects[order[i]].H > rects[order[j]].H
	})
	sky := arraylist.New(&node{x: 0, y: 0, w: width})
	height := 0
	for _, i := range order {
		r := &rects[i]
		if r.W == 0 || r.H == 0 {
			r.X, r.Y = 0, 0
			continue
		}
		at, y := bestFit(sky, r.W, r.H, width)
		r.X, r.Y = nodeAt(sky, at).x, y
		place(sky, at, r.X, y+r.H, r.W)
		if y+r.H > height {
			height = y + r.H
		}
	}
	tracer().Debugf("skyline: packed %d rectangles into %d×%d", len(rects), width, height)
	return height, nil
}

func nodeAt(sky *arraylist.List, i int) *node {
	n, _ := sky.Get(i)
	return n.(*node)
}

// bestFit finds the skyline node to place a rectangle at. It returns the
// node's index and the y-position the rectangle will rest at.
func bestFit(sky *arraylist.List, w, h, width int) (int, int) {
	best, bestY, bestTop, bestW := -1, 0, 0, 0
	for i := 0; i < sky.Size(); i++ {
		y, ok := fits(sky, i, w, width)
		if !ok {
			continue
		}
		nw := nodeAt(sky, i).w
		if best < 0 || y+h < bestTop || (y+h == bestTop && nw < bestW) {
			best, bestY, bestTop, bestW = i, y, y+h, nw
		}
	}
	return best, bestY
}

// fits checks if a rectangle of width w may start at node i, and returns
// the highest skyline position below it.
func fits(sky *arraylist.List, i, w, width int) (int, bool) {
	n := nodeAt(sky, i)
	if n.x+w > width {
		return 0, false
	}
	y, rest := 0, w
	for ; rest > 0 && i < sky.Size(); i++ {
		n = nodeAt(sky, i)
		if n.y > y {
			y = n.y
		}
		rest -= n.w
	}
	return y, rest <= 0
}

// place raises the skyline from x to x+w to height top. The new segment is
// inserted at index at, nodes it covers are shortened or removed and
// neighbours of equal height are merged.
func place(sky *arraylist.List, at, x, top, w int) {
	sky.Insert(at, &node{x: x, y: top, w: w})
	for i := at + 1; i < sky.Size(); {
		n := nodeAt(sky, i)
		shadow := x + w - n.x
		if shadow <= 0 {
			break
		}
		if shadow < n.w {
			n.x += shadow
			n.w -= shadow
			break
		}
		sky.Remove(i)
	}
	for i := 0; i+1 < sky.Size(); {
		n, m := nodeAt(sky, i), nodeAt(sky, i+1)
		if n.y == m.y {
			n.w += m.w
			sky.Remove(i + 1)
			continue
		}
		i++
	}
}
