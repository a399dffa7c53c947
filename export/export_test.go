package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 128, B: 64, A: 255})
	return img
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{
		"out.png": PNG,
		"OUT.JPG": JPEG,
		"a.jpeg":  JPEG,
		"x/y.tif": TIFF,
		"c.tiff":  TIFF,
		"rgb.bmp": BMP,
	} {
		got, err := FormatFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFor("composite.fits")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorIs(t, Encode(&bytes.Buffer{}, testImage(), Format("gif")), ErrUnknownFormat)
}

func TestSavePNGIsLossless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "composite.png")
	require.NoError(t, Save(path, testImage()))

	fileHandle, err := os.Open(path)
	require.NoError(t, err)
	defer fileHandle.Close()

	got, err := png.Decode(fileHandle)
	require.NoError(t, err)
	assert.Equal(t, testImage().Bounds(), got.Bounds())
	r, g, b, _ := got.At(1, 0).RGBA()
	assert.Equal(t, [3]uint32{0, 128, 64}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestEncodeTIFF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testImage(), TIFF))

	got, err := tiff.Decode(&buf)
	require.NoError(t, err)
	r, _, _, _ := got.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestEncodeOthers(t *testing.T) {
	for _, f := range []Format{JPEG, BMP} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, testImage(), f), string(f))
		assert.NotZero(t, buf.Len(), string(f))
	}
}
