package histogram

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FITScomposer/pipeline"
)

func TestPNG(t *testing.T) {
	g, err := pipeline.GridFromRows([][]float64{{1, 2, 3}, {4, 5, 600}})
	require.NoError(t, err)
	v, err := pipeline.NewViewState(g, g, g)
	require.NoError(t, err)

	opts := DefaultOptions("channels")
	opts.Bins = 8
	out, err := PNG(ChannelSeries(v), opts)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), img.Bounds().Dy())
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(nil, DefaultOptions(""))
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = Build([]Series{{Name: "red"}}, DefaultOptions(""))
	assert.ErrorIs(t, err, ErrNoSamples)

	plt, err := Build([]Series{{Values: []float64{0, 1, 1}}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "pixel count", plt.Y.Label.Text)
}
