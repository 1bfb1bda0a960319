/*
Package ot provides access to the tables of TrueType/OpenType fonts.
Intended audience for this package are:

▪︎ text shapers which need glyph indices, metrics and the GSUB/GPOS layout tables

▪︎ glyph rasterizers which need the raw outline data of table 'glyf'

Package `ot` does not interpret a font in full depth. It parses the tables needed
for shaping and rasterizing Latin text with TrueType outlines:

	head  hhea  hmtx  maxp  cmap  loca  glyf  GSUB  GPOS

and exposes low-level navigation primitives for the advanced layout tables
(script → language system → feature → lookup, coverage-index, class-of).
Applying lookups is left to package `otlayout`, decoding glyph outlines is
left to package `otglyph`.

# Reading

An ot.Font keeps the font's binary data in memory and never mutates it. All
parsing functions operate on byte-slice views and explicit offsets; there is no
shared cursor. Therefore a parsed font may be queried from multiple goroutines
at the same time. Clients who want to step through a sequence of values may
create a `Reader`, which is a cheap cursor over a view of the font data. Every
read is bounds-checked and reports core.ErrOutOfRange instead of panicking.

# Errors

Errors are core.AppErrors and may be checked with errors.Is:

▪︎ core.ErrOutOfRange: a seek or read beyond the end of a table or the font

▪︎ core.ErrInvalidFont: the font is malformed (bad magic number, missing tables)

▪︎ core.ErrUnsupportedFormat: a sub-table variant is not supported (e.g., cmap format 6)

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

The cmap format 4 lookup follows golang.org/x/image/font/sfnt/cmap.go.

	Copyright 2017 The Go Authors. All rights reserved.
	Use of this source code is governed by a BSD-style
	license that can be found in the LICENSE file.
*/
package ot

import (
	"fmt"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/schuko/tracing"
)

// Valuable resource:
// https://docs.microsoft.com/en-us/typography/opentype/spec/

// tracer writes to trace with key 'glyphatlas.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.fonts")
}

// errFontFormat produces user level errors for font parsing.
func errFontFormat(x string) error {
	return core.Error(core.EINVALID, "OpenType font format: %s", x)
}

// errRange reports a read beyond the bounds of a font's data.
func errRange(what string, offset, size int) error {
	return core.Error(core.ERANGE, "OpenType font data: %s at offset %d (size %d) out of range",
		what, offset, size)
}

// errUnsupported reports a table sub-format we do not handle.
func errUnsupported(table string, format int) error {
	return core.Error(core.EFORMAT, "OpenType %s sub-table format %d not supported", table, format)
}

// ErrUnsupportedf reports an unsupported table variant, for use by sister packages.
func ErrUnsupportedf(format string, args ...interface{}) error {
	return core.Error(core.EFORMAT, "%s", fmt.Sprintf(format, args...))
}
