// Package pipeline turns raw FITS intensity grids into display-ready channels
// and combines three of them into an RGB composite.
//
// Every function here is pure: inputs are never modified and outputs are
// freshly allocated, so callers may share grids between goroutines freely.
package pipeline

import (
	"fmt"
	"math"
)

// Grid is a 2-D array of raw intensity samples stored row-major:
// the sample at column x, row y is Pix[y*Width+x]. Row 0 is the first row
// of the FITS data array, which is the bottom of the sky image.
type Grid struct {
	Width  int
	Height int
	Pix    []float64
}

// NewGrid allocates a zero-filled grid.
func NewGrid(width, height int) Grid {
	return Grid{Width: width, Height: height, Pix: make([]float64, width*height)}
}

// GridFromRows builds a grid from rows of equal length. rows[0] becomes row 0.
func GridFromRows(rows [][]float64) (Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Grid{}, fmt.Errorf("%w: no rows", ErrInvalidInput)
	}
	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.Width {
			return Grid{}, fmt.Errorf("%w: row %d has %d samples, want %d", ErrInvalidInput, y, len(row), g.Width)
		}
		copy(g.Pix[y*g.Width:], row)
	}
	return g, nil
}

func (g Grid) At(x, y int) float64 { return g.Pix[y*g.Width+x] }
func (g Grid) Shape() Shape        { return Shape{Width: g.Width, Height: g.Height} }

func (g Grid) validate() error {
	if g.Width < 1 || g.Height < 1 {
		return fmt.Errorf("%w: %dx%d grid has no samples", ErrInvalidInput, g.Width, g.Height)
	}
	if len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("%w: %dx%d grid holds %d samples", ErrInvalidInput, g.Width, g.Height, len(g.Pix))
	}
	return nil
}

// Shape is the (width, height) pair that channels must agree on.
type Shape struct {
	Width  int
	Height int
}

func (s Shape) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Channel is a normalized grid: same layout as Grid, every sample in [0,1].
type Channel struct {
	Width  int
	Height int
	Pix    []float64
}

func (c Channel) At(x, y int) float64 { return c.Pix[y*c.Width+x] }
func (c Channel) Shape() Shape        { return Shape{Width: c.Width, Height: c.Height} }

// Composite is an RGB image of [0,1] floats, interleaved as
// Pix[(y*Width+x)*3+c] with c = 0 red, 1 green, 2 blue.
type Composite struct {
	Width  int
	Height int
	Pix    []float64
}

// At returns the red, green and blue values of one pixel.
func (c Composite) At(x, y int) (r, g, b float64) {
	i := (y*c.Width + x) * 3
	return c.Pix[i], c.Pix[i+1], c.Pix[i+2]
}

func (c Composite) Shape() Shape { return Shape{Width: c.Width, Height: c.Height} }

// Depth is always 3.
func (c Composite) Depth() int { return 3 }

// clip01 clamps v to [0,1]. NaN becomes 0.
func clip01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
