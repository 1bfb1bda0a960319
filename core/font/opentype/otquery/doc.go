/*
Package otquery queries metrics and other information from OpenType fonts.

It knows about the various tables contained in OpenType fonts and which ones to
address for queries. Clients of this package are the font file facade of
package font and the inspector command otcli.

No font collections nor variable fonts are supported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.fonts")
}
