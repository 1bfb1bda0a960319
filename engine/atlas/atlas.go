package atlas

import (
	"fmt"
	"image"
	"math"
	"sync/atomic"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/curve"
	"github.com/npillmayer/glyphatlas/engine/atlas/skyline"
	"github.com/npillmayer/glyphatlas/engine/sdf"
	"golang.org/x/sync/errgroup"
)

// Shape is a vector shape to place into an atlas, given in shape units.
// For glyphs, shape units are pixels at the intended font size (see
// GlyphShapes).
type Shape struct {
	Name    string          // identifies the shape in diagnostics
	Outline []curve.Segment // closed contours, y-axis pointing upwards
	Bounds  curve.Rect      // bounds of the shape; computed from Outline if empty
	Padding float64         // extra space around the shape, in shape units
}

// Region is the place of a shape within an atlas.
type Region struct {
	Name   string          `json:"name"`
	Bounds curve.Rect      `json:"bounds"` // bounds of the shape in shape units, without margin
	Margin float64         `json:"margin"` // margin around Bounds in shape units
	Packed image.Rectangle `json:"packed"` // texels of the region, including margin
	UV     curve.Rect      `json:"uv"`     // Packed, normalized to [0,1]×[0,1]
}

// Empty is true for regions of shapes without an outline.
func (r Region) Empty() bool {
	return r.Packed.Empty()
}

// Atlas is a signed distance field image with the regions of its shapes.
// An Atlas is not changed after it has been built.
type Atlas struct {
	Width, Height int
	Pix           []byte   // Width × Height intensities, row by row, top row first
	Regions       []Region // one per shape, in the order of the input shapes
	Config        Config   // configuration the atlas has been built with
}

func (a *Atlas) String() string {
	return fmt.Sprintf("atlas[%d×%d, %d regions]", a.Width, a.Height, len(a.Regions))
}

// Image returns the atlas as a grayscale image. The image shares its pixels
// with the atlas.
func (a *Atlas) Image() *image.Gray {
	return &image.Gray{
		Pix:    a.Pix,
		Stride: a.Width,
		Rect:   image.Rect(0, 0, a.Width, a.Height),
	}
}

// Intensity maps a signed distance in pixels to a texel value, using a
// linear ramp from 255 at −sdfWidth to 0 at +sdfWidth.
func Intensity(d, sdfWidth float64) uint8 {
	v := (1 - (d+sdfWidth)/(2*sdfWidth)) * 255
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

// Build creates an atlas from shapes. The atlas has a fixed width, its height
// is whatever the packer needs. Shapes too wide for the atlas make the build
// fail with an error of code core.ERANGE.
//
// Shapes are rasterized by up to config.Workers goroutines. Build does not
// return before all of them have finished.
func Build(shapes []Shape, config Config) (*Atlas, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	a := &Atlas{Width: config.Width, Config: config, Regions: make([]Region, len(shapes))}
	rects := make([]skyline.Rect, len(shapes))
	for i, s := range shapes {
		r := &a.Regions[i]
		r.Name = s.Name
		r.Bounds = s.Bounds
		if r.Bounds.Empty() || r.Bounds == (curve.Rect{}) {
			r.Bounds = curve.Bounds(s.Outline)
		}
		if len(s.Outline) == 0 || r.Bounds.Empty() {
			r.Bounds = curve.Rect{}
			continue
		}
		r.Margin = config.SDFWidth/config.Oversample + s.Padding
		rects[i].W = int(math.Ceil((r.Bounds.Dx() + 2*r.Margin) * config.Oversample))
		rects[i].H = int(math.Ceil((r.Bounds.Dy() + 2*r.Margin) * config.Oversample))
	}
	height, err := skyline.Pack(rects, config.Width)
	if err != nil {
		tracer().Errorf("cannot pack %d shapes into width %d: %v", len(shapes), config.Width, err)
		return nil, err
	}
	a.Height = height
	a.Pix = make([]byte, a.Width*a.Height)
	for i, rect := range rects {
		a.Regions[i].Packed = image.Rect(rect.X, rect.Y, rect.X+rect.W, rect.Y+rect.H)
	}
	if err := a.assertDisjoint(); err != nil {
		return nil, err
	}
	if err := a.rasterize(shapes); err != nil {
		return nil, err
	}
	a.normalize()
	tracer().Infof("built %v", a)
	return a, nil
}

// assertDisjoint checks that no two regions overlap. Workers rely on this
// when writing to the shared pixel buffer.
func (a *Atlas) assertDisjoint() error {
	for i, r := range a.Regions {
		if r.Empty() {
			continue
		}
		if !r.Packed.In(image.Rect(0, 0, a.Width, a.Height)) {
			return core.Error(core.EINTERNAL, "region %d %v outside of atlas", i, r.Packed)
		}
		for j := i + 1; j < len(a.Regions); j++ {
			if r.Packed.Overlaps(a.Regions[j].Packed) {
				return core.Error(core.EINTERNAL, "atlas regions %d and %d overlap", i, j)
			}
		}
	}
	return nil
}

// rasterize computes the distance fields of all shapes in parallel. Workers
// take the next shape from a shared counter.
func (a *Atlas) rasterize(shapes []Shape) error {
	workers := a.Config.Workers
	if workers > len(shapes) {
		workers = len(shapes)
	}
	var next atomic.Int64
	var g errgroup.Group
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				i := int(next.Add(1)) - 1
				if i >= len(shapes) {
					return nil
				}
				if !a.Regions[i].Empty() {
					a.rasterizeShape(shapes[i], a.Regions[i])
				}
			}
		})
	}
	return g.Wait()
}

// rasterizeShape writes the distance field of one shape into its region.
// Texel rows run top-down, shape coordinates bottom-up.
func (a *Atlas) rasterizeShape(s Shape, r Region) {
	poly := sdf.Flatten(s.Outline, a.Config.Density)
	for py := r.Packed.Min.Y; py < r.Packed.Max.Y; py++ {
		row := a.Pix[py*a.Width : (py+1)*a.Width]
		for px := r.Packed.Min.X; px < r.Packed.Max.X; px++ {
			d := poly.SignedDistance(a.TexelCenter(r, px, py)) * a.Config.Oversample
			row[px] = Intensity(d, a.Config.SDFWidth)
		}
	}
	tracer().Debugf("rasterized %s (%d lines) into %v", s.Name, len(poly), r.Packed)
}

// normalize sets the texture coordinates of all regions.
func (a *Atlas) normalize() {
	if a.Width == 0 || a.Height == 0 {
		return
	}
	w, h := float64(a.Width), float64(a.Height)
	for i := range a.Regions {
		p := a.Regions[i].Packed
		if p.Empty() {
			continue
		}
		a.Regions[i].UV = curve.Rect{
			Min: curve.Pt(float64(p.Min.X)/w, float64(p.Min.Y)/h),
			Max: curve.Pt(float64(p.Max.X)/w, float64(p.Max.Y)/h),
		}
	}
}

// At returns the intensity of the texel at x, y.
func (a *Atlas) At(x, y int) uint8 {
	return a.Pix[y*a.Width+x]
}

// TexelCenter returns the position of the center of texel (x, y) of a
// region, in shape units.
func (a *Atlas) TexelCenter(r Region, x, y int) curve.Point {
	scale := a.Config.Oversample
	return curve.Pt(
		r.Bounds.Min.X-r.Margin+(float64(x-r.Packed.Min.X)+0.5)/scale,
		r.Bounds.Max.Y+r.Margin-(float64(y-r.Packed.Min.Y)+0.5)/scale,
	)
}
