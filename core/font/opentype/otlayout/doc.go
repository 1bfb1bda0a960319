/*
Package otlayout applies OpenType layout features to glyphs.

We support the two features a glyph atlas needs for setting text: ligature
substitution (GSUB feature 'liga') and pair kerning (GPOS feature 'kern').
Features are located via the script list of the respective layout table,
trying the script requested by the client first and falling back to the
default script 'DFLT'.

Lookup types which are irrelevant for a feature (e.g., single substitutions
in 'liga') are skipped. Lookup types which would be relevant but are not
implemented (contextual lookups) result in core.ErrNotImplemented, so that
clients may decide to ignore the feature for the font.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otlayout

import (
	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.fonts")
}

// errFontFormat produces user level errors for malformed layout tables.
func errFontFormat(x string) error {
	return core.Error(core.EINVALID, "OpenType layout table format: %s", x)
}
