/*
Package atlas builds signed distance field atlases for glyphs and icons.

An atlas is a single-channel image holding the signed distance fields of
many shapes, packed side by side. Each texel encodes the distance of its
center to the nearest outline of its shape, mapped linearly from
[−SDFWidth, +SDFWidth] pixels to intensities [255, 0]: texels well inside a
shape are white, texels farther than SDFWidth outside are black, and the
outline itself is at 50% gray. A renderer samples the atlas with bilinear
filtering and thresholds at 0.5, which gives crisp edges at any scale.

Building an atlas takes three steps:

▪︎ The bounding box of every shape is scaled by the oversampling factor and
grown by the SDF width (plus the shape's padding) on every side. The
resulting rectangles are packed with package skyline.

▪︎ Every shape's outline is flattened to a polygon, and the distance field of
its rectangle is computed. Shapes are processed in parallel. Packed
rectangles never overlap, so workers write to disjoint parts of the image.

▪︎ Packed rectangles are normalized to texture coordinates.

Builds are deterministic: the same shapes and configuration always produce
the same atlas, byte by byte, regardless of the number of workers.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package atlas

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.sdf'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.sdf")
}
