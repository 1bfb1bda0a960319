/*
Package dimen implements dimensions and units for font sizes.

Dimensions are fixed-point values in scaled big points, i.e. 1/65536 of a
PDF point. Font sizes for shaping and atlas generation are given as
dimensions like "12pt" or "16px" and converted to pixels for a target
resolution.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package dimen

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphatlas/core"
)

// Online dimension conversion for print:
// http://www.unitconversion.org/unit_converter/typography-ex.html

// Dimen is a dimension type.
// Values are in scaled big points (different from TeX).
type Dimen int32

// Some pre-defined dimensions
const (
	Zero Dimen = 0
	SP   Dimen = 1       // scaled point = BP / 65536
	BP   Dimen = 65536   // big point (PDF) = 1/72 inch
	PX   Dimen = 65536   // "pixels" at 72 dpi
	PT   Dimen = 65291   // printers point 1/72.27 inch
	MM   Dimen = 185771  // millimeters
	CM   Dimen = 1857710 // centimeters
	IN   Dimen = 4718592 // inch
)

// Stringer implementation.
func (d Dimen) String() string {
	return fmt.Sprintf("%dsp", int32(d))
}

// Points returns a dimension in big (PDF) points.
func (d Dimen) Points() float64 {
	return float64(d) / float64(BP)
}

// Pixels returns a dimension in pixels for a given resolution in dots per
// inch. At 72 dpi, a pixel equals a big point. A non-positive resolution is
// treated as 72 dpi.
func (d Dimen) Pixels(dpi float64) float64 {
	if dpi <= 0 {
		dpi = 72
	}
	return float64(d) / float64(IN) * dpi
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+))([a-zA-Z]{2})?$`)

var units = map[string]Dimen{
	"sp": SP,
	"bp": BP,
	"px": PX,
	"pt": PT,
	"mm": MM,
	"cm": CM,
	"in": IN,
}

// ParseDimen parses a string to return a dimension, e.g. "12pt" or "0.5in".
// Units are case-insensitive; a number without unit is in scaled points.
// Malformed input results in an error with code core.EINVALID.
func ParseDimen(s string) (Dimen, error) {
	d := dimenPattern.FindStringSubmatch(strings.TrimSpace(s))
	if d == nil {
		return 0, core.Error(core.EINVALID, "format error parsing dimension %q", s)
	}
	scale := SP
	if d[2] != "" {
		var ok bool
		if scale, ok = units[strings.ToLower(d[2])]; !ok {
			return 0, core.Error(core.EINVALID, "unknown unit in dimension %q", s)
		}
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, core.WrapError(err, core.EINVALID, "format error parsing dimension %q", s)
	}
	v := math.Round(n * float64(scale))
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, core.Error(core.ERANGE, "dimension %q out of range", s)
	}
	return Dimen(v), nil
}

// MustParse is like ParseDimen, but panics on malformed input.
func MustParse(s string) Dimen {
	d, err := ParseDimen(s)
	if err != nil {
		panic(err)
	}
	return d
}
