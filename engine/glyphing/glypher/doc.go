/*
Package glypher is a home-grown shaper for easy cases, i.e. horizontal text
in scripts which do not need contextual shaping.

Text processing follows the standard steps for OpenType Layout fonts
(https://docs.microsoft.com/en-us/typography/opentype/spec/ttochap1#text-processing-with-opentype-layout-fonts):

▪︎ Text is normalized to NFC, then converted to a string of glyph indices
using the font's 'cmap' table. Code-points without a glyph are mapped to
glyph 0 ('.notdef').

▪︎ Ligatures are substituted, using the font's 'liga' feature. Starting at
the end of the run, the glyphs ending at each position are tried for a
ligature of three glyphs, then of two glyphs. Scanning is repeated until a scan substitutes nothing.
Every substitution makes the run shorter, so this terminates.

▪︎ Glyphs are positioned using their advance widths, adjusted by the font's
'kern' feature, and scaled from font units to pixels.

There is no support for bidirectional or vertical text, line breaking or
justification.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package glypher

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.text'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.text")
}
