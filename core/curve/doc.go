/*
Package curve implements the curve primitives used for glyph outlines and
vector icons: straight lines, quadratic and cubic Bézier curves, and
elliptical arcs.

Every segment may be evaluated at a parameter t ∈ [0, 1] and reports a
curvature estimate. The estimate drives adaptive subsampling: Subsample
approximates a segment by straight lines, using more lines for sharper
curves.

Arcs are given in SVG endpoint notation (radii, x-axis rotation, large-arc
flag, sweep flag). Before an arc can be evaluated, it has to be converted to
center notation, which is done by Precompute. Subsample will take care of
this.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package curve

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.geom'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.geom")
}
