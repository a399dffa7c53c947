package pipeline

import (
	"image"
	"image/color"
	"math"
)

// to8 converts a [0,1] sample to a byte: scale by 255, round, clip.
func to8(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	x := math.Round(v * 255)
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}

// GrayImage renders a channel as an 8-bit grayscale image. FITS row 0 is the
// bottom of the sky, so rows are flipped to put it at the bottom of the image.
func GrayImage(c Channel) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		row := img.Pix[(c.Height-1-y)*img.Stride:]
		for x := 0; x < c.Width; x++ {
			row[x] = to8(c.Pix[y*c.Width+x])
		}
	}
	return img
}

// RGBImage renders a composite as an opaque 8-bit-per-channel image, with
// the same bottom-up row order as GrayImage.
func RGBImage(c Composite) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		dy := c.Height - 1 - y
		for x := 0; x < c.Width; x++ {
			r, g, b := c.At(x, y)
			img.SetNRGBA(x, dy, color.NRGBA{R: to8(r), G: to8(g), B: to8(b), A: 255})
		}
	}
	return img
}
