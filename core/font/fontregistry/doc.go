/*
Package fontregistry manages a registry for loaded fonts.

Fonts are registered under a normalized name, which includes the style and
weight of a font. Clients asking for a font which has not been registered
receive the fallback font, together with an error.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glyphatlas.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.fonts")
}
