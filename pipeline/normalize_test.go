package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGrid(t *testing.T, rows [][]float64) Grid {
	t.Helper()
	g, err := GridFromRows(rows)
	require.NoError(t, err)
	return g
}

func TestNormalizeFourSamples(t *testing.T) {
	g := mustGrid(t, [][]float64{{1, 2}, {3, 4}})

	lo, hi, err := PercentileRange(g, LowPercentile, HighPercentile)
	require.NoError(t, err)
	assert.InDelta(t, 1.03, lo, 1e-12)
	assert.InDelta(t, 3.97, hi, 1e-12)

	c, err := Normalize(g)
	require.NoError(t, err)
	assert.Equal(t, Shape{Width: 2, Height: 2}, c.Shape())

	want := []float64{0, 0.97 / 2.94, 1.97 / 2.94, 1}
	for i := range want {
		assert.InDelta(t, want[i], c.Pix[i], 1e-9, "sample %d", i)
	}
	assert.InDelta(t, 0.33, c.At(1, 0), 0.01)
	assert.InDelta(t, 0.67, c.At(0, 1), 0.01)
}

func TestNormalizeNonFinite(t *testing.T) {
	g := mustGrid(t, [][]float64{{math.NaN(), 1}, {math.Inf(1), 2}})

	clean := Sanitize(g)
	assert.Equal(t, []float64{0, 1, 0, 2}, clean.Pix)
	assert.True(t, math.IsNaN(g.Pix[0]), "input must not be modified")

	c, err := Normalize(g)
	require.NoError(t, err)
	for i, v := range c.Pix {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "sample %d is %v", i, v)
	}
	assert.Equal(t, 0.0, c.Pix[0])
	assert.Equal(t, 0.0, c.Pix[2])
	assert.InDelta(t, 1/1.97, c.Pix[1], 1e-9)
	assert.Equal(t, 1.0, c.Pix[3])
}

func TestSanitizeNegativeInfinity(t *testing.T) {
	g := mustGrid(t, [][]float64{{math.Inf(-1), -3, 7}})
	assert.Equal(t, []float64{0, -3, 7}, Sanitize(g).Pix)
}

func TestNormalizeFlatGridIsZero(t *testing.T) {
	g := mustGrid(t, [][]float64{{5, 5, 5}, {5, 5, 5}})
	c, err := Normalize(g)
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 6), c.Pix)

	allBad := mustGrid(t, [][]float64{{math.NaN(), math.Inf(1)}})
	c, err = Normalize(allBad)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, c.Pix)
}

func TestNormalizeRejectsEmpty(t *testing.T) {
	_, err := Normalize(Grid{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Normalize(Grid{Width: 3, Height: 2, Pix: []float64{1, 2}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = GridFromRows(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = GridFromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizeIsRepeatableAndInRange(t *testing.T) {
	g := NewGrid(17, 9)
	for i := range g.Pix {
		g.Pix[i] = math.Sin(float64(i)*0.7) * float64(i%5) * 1e4
	}
	g.Pix[3] = math.NaN()
	g.Pix[40] = math.Inf(-1)

	a, err := Normalize(g)
	require.NoError(t, err)
	b, err := Normalize(g)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	for i, v := range a.Pix {
		assert.True(t, v >= 0 && v <= 1, "sample %d = %v", i, v)
	}

	// Finite samples whose range overflows float64.
	wide := Grid{Width: 4, Height: 1, Pix: []float64{-1.7e308, -1.7e308, 1.7e308, 1.7e308}}
	c, err := Normalize(wide)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0, 1, 1}, c.Pix, 1e-12)

	pair := Grid{Width: 2, Height: 1, Pix: []float64{-math.MaxFloat64, math.MaxFloat64}}
	c, err = Normalize(pair)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, c.Pix)
}

func TestPercentile(t *testing.T) {
	assert.Equal(t, 7.0, Percentile([]float64{7}, 50))
	assert.Equal(t, 1.0, Percentile([]float64{1, 2, 3}, 0))
	assert.Equal(t, 3.0, Percentile([]float64{1, 2, 3}, 100))
	assert.InDelta(t, 2.5, Percentile([]float64{1, 2, 3, 4}, 50), 1e-12)
	assert.InDelta(t, 1.3, Percentile([]float64{1, 2}, 30), 1e-12)
	assert.Equal(t, 0.0, Percentile([]float64{-1.7e308, 1.7e308}, 50))
	assert.InEpsilon(t, 8.5e307, Percentile([]float64{-1.7e308, 1.7e308}, 75), 1e-12)

	_, _, err := PercentileRange(NewGrid(2, 2), 60, 40)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
