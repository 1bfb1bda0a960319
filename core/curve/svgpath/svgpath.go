/*
Package svgpath reads path data of the SVG 'd' attribute into curve segments.

All commands of SVG 1.1 path data are understood, in absolute (upper case)
and relative (lower case) form:

	M L H V    move to, line to, horizontal and vertical line to
	C S        cubic Bézier, smooth cubic Bézier
	Q T        quadratic Bézier, smooth quadratic Bézier
	A          elliptical arc
	Z          close path

Arguments may be repeated without repeating the command letter. Repeated
arguments of a move-to are treated as line-to. Path data is parsed in the
coordinate system it is given in; no y-flip is performed.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package svgpath

import (
	"strconv"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/curve"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.geom'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.geom")
}

// Parse interprets path data and returns the segments of all sub-paths, in
// order. Every sub-path is closed by a straight line back to its start point,
// if the current point differs from it. This happens at Z, at the move-to
// starting the next sub-path and at the end of the path data, so open
// sub-paths are filled the way SVG fills them.
//
// Malformed path data results in an error with code core.EINVALID.
func Parse(d string) ([]curve.Segment, error) {
	p := &parser{sc: scanner{data: d}}
	if err := p.parse(); err != nil {
		tracer().Errorf("svg path: %v", err)
		return nil, err
	}
	tracer().Debugf("svg path: %d segments", len(p.segs))
	return p.segs, nil
}

// MustParse is like Parse, but panics on malformed path data. It is
// intended for icons compiled into a program.
func MustParse(d string) []curve.Segment {
	segs, err := Parse(d)
	if err != nil {
		panic(err)
	}
	return segs
}

type parser struct {
	sc      scanner
	segs    []curve.Segment
	cur     curve.Point // current point
	start   curve.Point // start of current sub-path
	ctrl    curve.Point // last control point, for smooth curves
	lastCmd byte
	moved   bool // a sub-path has been started
}

func (p *parser) parse() error {
	var cmd byte
	for {
		p.sc.skipSpace()
		if p.sc.eof() {
			p.closePath()
			return nil
		}
		if c := p.sc.peek(); isCommand(c) {
			cmd = c
			p.sc.pos++
		} else if cmd == 0 {
			return p.sc.errorf("path data has to start with a command, found %q", c)
		} else if cmd == 'Z' || cmd == 'z' {
			return p.sc.errorf("unexpected argument after close path")
		}
		if !p.moved && cmd != 'M' && cmd != 'm' {
			return p.sc.errorf("path data has to start with move-to, found %q", cmd)
		}
		if err := p.command(cmd); err != nil {
			return err
		}
		p.lastCmd = cmd
		switch cmd { // subsequent argument pairs of a move-to are line-tos
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}
}

func (p *parser) command(cmd byte) error {
	rel := cmd >= 'a'
	var nums [7]float64
	n := argc[upper(cmd)]
	for i := 0; i < n; i++ {
		var err error
		if upper(cmd) == 'A' && (i == 3 || i == 4) {
			nums[i], err = p.sc.flag()
		} else {
			nums[i], err = p.sc.number()
		}
		if err != nil {
			return err
		}
	}
	// abs makes the i-th coordinate pair absolute
	abs := func(i int) curve.Point {
		q := curve.Pt(nums[i], nums[i+1])
		if rel {
			return q.Add(p.cur)
		}
		return q
	}
	switch upper(cmd) {
	case 'M':
		end := abs(0)
		p.closePath()
		p.cur = end
		p.start, p.ctrl, p.moved = p.cur, p.cur, true
		return nil
	case 'L':
		p.lineTo(abs(0))
	case 'H':
		x := nums[0]
		if rel {
			x += p.cur.X
		}
		p.lineTo(curve.Pt(x, p.cur.Y))
	case 'V':
		y := nums[0]
		if rel {
			y += p.cur.Y
		}
		p.lineTo(curve.Pt(p.cur.X, y))
	case 'C':
		c1, c2, end := abs(0), abs(2), abs(4)
		p.segs = append(p.segs, curve.Cubic(p.cur, c1, c2, end))
		p.cur, p.ctrl = end, c2
	case 'S':
		c1 := p.reflect("CcSs")
		c2, end := abs(0), abs(2)
		p.segs = append(p.segs, curve.Cubic(p.cur, c1, c2, end))
		p.cur, p.ctrl = end, c2
	case 'Q':
		c, end := abs(0), abs(2)
		p.segs = append(p.segs, curve.Quad(p.cur, c, end))
		p.cur, p.ctrl = end, c
	case 'T':
		c := p.reflect("QqTt")
		end := abs(0)
		p.segs = append(p.segs, curve.Quad(p.cur, c, end))
		p.cur, p.ctrl = end, c
	case 'A':
		end := abs(5)
		radii := curve.Pt(nums[0], nums[1])
		p.segs = append(p.segs, curve.Arc(p.cur, radii, nums[2], nums[3] != 0, nums[4] != 0, end))
		p.cur, p.ctrl = end, end
	case 'Z':
		p.closePath()
	}
	return nil
}

// closePath connects the current point to the start of the sub-path.
func (p *parser) closePath() {
	if !p.moved {
		return
	}
	if p.cur != p.start {
		p.segs = append(p.segs, curve.Line(p.cur, p.start))
	}
	p.cur, p.ctrl = p.start, p.start
}

func (p *parser) lineTo(q curve.Point) {
	p.segs = append(p.segs, curve.Line(p.cur, q))
	p.cur, p.ctrl = q, q
}

// reflect returns the reflection of the last control point at the current
// point, if the previous command is one of prev. Otherwise the current point
// is the control point.
func (p *parser) reflect(prev string) curve.Point {
	for i := 0; i < len(prev); i++ {
		if p.lastCmd == prev[i] {
			return p.cur.Mul(2).Sub(p.ctrl)
		}
	}
	return p.cur
}

// argc is the number of arguments per command.
var argc = [...]int{'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0}

func isCommand(c byte) bool {
	switch upper(c) {
	case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T', 'A', 'Z':
		return true
	}
	return false
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// --- Scanner ---------------------------------------------------------------

type scanner struct {
	data string
	pos  int
}

func (sc *scanner) eof() bool { return sc.pos >= len(sc.data) }

func (sc *scanner) peek() byte { return sc.data[sc.pos] }

func (sc *scanner) skipSpace() {
	for !sc.eof() {
		switch sc.peek() {
		case ' ', '\t', '\n', '\r', '\f':
			sc.pos++
		default:
			return
		}
	}
}

// skipSeparator skips white space and at most one comma.
func (sc *scanner) skipSeparator() {
	sc.skipSpace()
	if !sc.eof() && sc.peek() == ',' {
		sc.pos++
		sc.skipSpace()
	}
}

// number scans a number, following the grammar of SVG path data. Numbers
// need not be separated if the second one starts with a sign or a second
// decimal point, as in "1-2" or "0.5.5".
func (sc *scanner) number() (float64, error) {
	sc.skipSeparator()
	start := sc.pos
	if !sc.eof() && (sc.peek() == '+' || sc.peek() == '-') {
		sc.pos++
	}
	digits := sc.digits()
	if !sc.eof() && sc.peek() == '.' {
		sc.pos++
		digits += sc.digits()
	}
	if digits == 0 {
		if sc.eof() {
			return 0, sc.errorf("unexpected end of path data")
		}
		return 0, sc.errorf("number expected, found %q", sc.peek())
	}
	if !sc.eof() && (sc.peek() == 'e' || sc.peek() == 'E') {
		mark := sc.pos
		sc.pos++
		if !sc.eof() && (sc.peek() == '+' || sc.peek() == '-') {
			sc.pos++
		}
		if sc.digits() == 0 { // not an exponent
			sc.pos = mark
		}
	}
	f, err := strconv.ParseFloat(sc.data[start:sc.pos], 64)
	if err != nil {
		return 0, core.WrapError(err, core.EINVALID, "svg path: malformed number at %d", start)
	}
	return f, nil
}

func (sc *scanner) digits() int {
	n := 0
	for !sc.eof() && sc.peek() >= '0' && sc.peek() <= '9' {
		sc.pos++
		n++
	}
	return n
}

// flag scans an arc flag, which is a single '0' or '1' and may be written
// without separator.
func (sc *scanner) flag() (float64, error) {
	sc.skipSeparator()
	if sc.eof() {
		return 0, sc.errorf("unexpected end of path data")
	}
	switch sc.peek() {
	case '0':
		sc.pos++
		return 0, nil
	case '1':
		sc.pos++
		return 1, nil
	}
	return 0, sc.errorf("arc flag expected, found %q", sc.peek())
}

func (sc *scanner) errorf(format string, v ...interface{}) error {
	err := core.Error(core.EINVALID, format, v...)
	return core.WrapError(err, core.EINVALID, "svg path: error at position %d", sc.pos)
}
