package curve

import "math"

// MaxSteps limits the number of lines a single segment is subsampled into.
const MaxSteps = 1024

// Subsample approximates a segment by straight lines and appends them to out.
// The number of lines is ceil(1 + curvature × density), i.e. at least one and
// at most MaxSteps; lines are spaced at equal parameter increments.
//
// The last line ends exactly at the segment's end point, so subsampled
// closed contours stay closed.
func Subsample(seg Segment, density float64, out []Segment) []Segment {
	seg.Precompute()
	if seg.Kind == KindLine {
		return append(out, seg)
	}
	steps := 1
	if n := math.Ceil(1 + seg.Curvature()*density); n > MaxSteps {
		steps = MaxSteps
	} else if n > 1 {
		steps = int(n)
	}
	prev := seg.Start
	for i := 1; i < steps; i++ {
		p := seg.Interpolate(float64(i) / float64(steps))
		out = append(out, Line(prev, p))
		prev = p
	}
	return append(out, Line(prev, seg.End))
}

// Flatten subsamples every segment of a path.
func Flatten(segments []Segment, density float64) []Segment {
	out := make([]Segment, 0, len(segments))
	for _, s := range segments {
		out = Subsample(s, density, out)
	}
	return out
}
