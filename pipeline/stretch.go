package pipeline

import (
	"fmt"
	"math"
)

// Stretch selects how a grid is mapped onto [0,1] for display.
type Stretch int

const (
	// StretchLinear maps the sanitized min..max onto 0..1.
	StretchLinear Stretch = iota
	// StretchPercentile is the 1%-99% stretch performed by Normalize.
	StretchPercentile
	// StretchLog applies a logarithmic curve after a min..max interval.
	StretchLog
)

// LogA is the curvature of the logarithmic stretch: y = log(a*x+1) / log(a+1).
const LogA = 1000.0

var stretchNames = map[Stretch]string{
	StretchLinear:     "Raw",
	StretchPercentile: "Percentile 1%-99%",
	StretchLog:        "Logarithmic",
}

func (s Stretch) String() string {
	if name, ok := stretchNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stretch(%d)", int(s))
}

// Stretches lists every display mode, in the order the inspector shows them.
func Stretches() []Stretch { return []Stretch{StretchLinear, StretchPercentile, StretchLog} }

// Apply maps g onto [0,1] with the given stretch.
func Apply(g Grid, s Stretch) (Channel, error) {
	switch s {
	case StretchPercentile:
		return Normalize(g)
	case StretchLinear, StretchLog:
	default:
		return Channel{}, fmt.Errorf("%w: unknown stretch %v", ErrInvalidParameter, s)
	}

	if err := g.validate(); err != nil {
		return Channel{}, err
	}
	clean := Sanitize(g)
	lo, hi := minMax(clean.Pix)
	out := stretchLinear(clean, lo, hi)
	if s == StretchLog {
		k := math.Log(LogA + 1)
		for i, v := range out.Pix {
			out.Pix[i] = clip01(math.Log(LogA*v+1) / k)
		}
	}
	return out, nil
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
