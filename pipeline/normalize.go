package pipeline

import (
	"fmt"
	"math"
	"slices"
)

// Percentile bounds used by Normalize.
const (
	LowPercentile  = 1.0
	HighPercentile = 99.0
)

// Sanitize returns a copy of g with every NaN, +Inf and -Inf replaced by 0.
// Saturated pixels are treated the same as dropouts.
func Sanitize(g Grid) Grid {
	out := Grid{Width: g.Width, Height: g.Height, Pix: make([]float64, len(g.Pix))}
	for i, v := range g.Pix {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out.Pix[i] = v
	}
	return out
}

// Percentile returns the p-th percentile (0..100) of an ascending slice,
// interpolating linearly between the two nearest ranks. sorted must not be empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	if lo < 0 {
		return sorted[0]
	}
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	a, b := sorted[lo], sorted[lo+1]
	if d := b - a; !math.IsInf(d, 0) {
		return a + frac*d
	}
	return (a/2 + frac*(b/2-a/2)) * 2
}

// PercentileRange sanitizes g and returns its lo-th and hi-th percentiles.
func PercentileRange(g Grid, lo, hi float64) (float64, float64, error) {
	if err := g.validate(); err != nil {
		return 0, 0, err
	}
	if lo < 0 || hi > 100 || lo > hi {
		return 0, 0, fmt.Errorf("%w: percentile range %g..%g", ErrInvalidParameter, lo, hi)
	}
	sorted := Sanitize(g).Pix
	slices.Sort(sorted)
	return Percentile(sorted, lo), Percentile(sorted, hi), nil
}

// Normalize maps g onto [0,1] with a 1%-99% percentile stretch after
// sanitizing non-finite samples. A flat grid (vmin == vmax) yields all zeros.
func Normalize(g Grid) (Channel, error) {
	if err := g.validate(); err != nil {
		return Channel{}, err
	}
	clean := Sanitize(g)

	sorted := slices.Clone(clean.Pix)
	slices.Sort(sorted)
	vmin := Percentile(sorted, LowPercentile)
	vmax := Percentile(sorted, HighPercentile)

	return stretchLinear(clean, vmin, vmax), nil
}

// stretchLinear maps [vmin, vmax] onto [0,1] and clips. clean must already be sanitized.
func stretchLinear(clean Grid, vmin, vmax float64) Channel {
	out := Channel{Width: clean.Width, Height: clean.Height, Pix: make([]float64, len(clean.Pix))}
	span := vmax - vmin
	if span == 0 {
		return out
	}
	if math.IsInf(span, 0) {
		// Range wider than MaxFloat64: work on halves.
		half := vmax/2 - vmin/2
		for i, v := range clean.Pix {
			out.Pix[i] = clip01((v/2 - vmin/2) / half)
		}
		return out
	}
	for i, v := range clean.Pix {
		out.Pix[i] = clip01((v - vmin) / span)
	}
	return out
}
