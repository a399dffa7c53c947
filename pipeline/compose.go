package pipeline

import (
	"fmt"
	"math"
)

// Gains are the per-channel multipliers applied while compositing.
type Gains struct {
	Red   float64
	Green float64
	Blue  float64
}

// DefaultGains leaves every channel unchanged.
func DefaultGains() Gains { return Gains{Red: 1, Green: 1, Blue: 1} }

func (g Gains) validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{{"red", g.Red}, {"green", g.Green}, {"blue", g.Blue}} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			return fmt.Errorf("%w: %s gain %g must be a positive finite number", ErrInvalidParameter, f.name, f.value)
		}
	}
	return nil
}

// Compose scales each channel by its gain, clips to [0,1] and interleaves the
// result as red, green, blue.
func Compose(red, green, blue Channel, gains Gains) (Composite, error) {
	if red.Shape() != green.Shape() || red.Shape() != blue.Shape() {
		return Composite{}, &ShapeError{Red: red.Shape(), Green: green.Shape(), Blue: blue.Shape()}
	}
	if red.Width < 1 || red.Height < 1 {
		return Composite{}, fmt.Errorf("%w: %v channels have no samples", ErrInvalidInput, red.Shape())
	}
	n := red.Width * red.Height
	if len(red.Pix) != n || len(green.Pix) != n || len(blue.Pix) != n {
		return Composite{}, fmt.Errorf("%w: channel sample count does not match %v", ErrInvalidInput, red.Shape())
	}
	if err := gains.validate(); err != nil {
		return Composite{}, err
	}

	out := Composite{Width: red.Width, Height: red.Height, Pix: make([]float64, 3*n)}
	for i := 0; i < n; i++ {
		out.Pix[3*i] = clip01(red.Pix[i] * gains.Red)
		out.Pix[3*i+1] = clip01(green.Pix[i] * gains.Green)
		out.Pix[3*i+2] = clip01(blue.Pix[i] * gains.Blue)
	}
	return out, nil
}
