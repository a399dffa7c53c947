// Package fitsfile reads FITS images into pipeline grids.
package fitsfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/astrogo/fitsio"

	"FITScomposer/pipeline"
)

var (
	ErrNoImage           = errors.New("no image data in FITS file")
	ErrUnsupportedBitpix = errors.New("unsupported BITPIX")
)

// Card is one header keyword with its value and comment.
type Card struct {
	Name    string
	Value   interface{}
	Comment string
}

// Image is the decoded primary image of a FITS file.
type Image struct {
	Path   string
	Bitpix int
	Axes   []int // NAXIS1, NAXIS2, ...
	Cards  []Card
	Grid   pipeline.Grid
}

// Open reads the FITS file at path.
func Open(path string) (*Image, error) {
	fileHandle, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fileHandle.Close()

	return Decode(fileHandle, path)
}

// Decode reads a FITS stream. name is only used for Path and error messages.
// The first image HDU holding data is used; for NAXIS > 2 only the first plane
// is kept. BSCALE and BZERO are applied.
func Decode(r io.Reader, name string) (*Image, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("fitsio could not open %s: %w", name, err)
	}
	defer f.Close()

	for _, hdu := range f.HDUs() {
		img, ok := hdu.(fitsio.Image)
		if !ok {
			continue
		}
		axes := img.Header().Axes()
		if len(axes) < 2 || axes[0] < 1 || axes[1] < 1 {
			continue
		}
		return decodeImage(img, name)
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNoImage)
}

func decodeImage(img fitsio.Image, name string) (*Image, error) {
	hdr := img.Header()
	axes := append([]int(nil), hdr.Axes()...)
	width, height := axes[0], axes[1]

	out := &Image{
		Path:   name,
		Bitpix: hdr.Bitpix(),
		Axes:   axes,
		Cards:  headerCards(hdr),
	}

	bscale := floatKey(hdr, "BSCALE", 1)
	bzero := floatKey(hdr, "BZERO", 0)

	samples, err := decodeSamples(img.Raw(), out.Bitpix, width*height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if bscale != 1 || bzero != 0 {
		for i, v := range samples {
			samples[i] = bzero + bscale*v
		}
	}
	out.Grid = pipeline.Grid{Width: width, Height: height, Pix: samples}
	return out, nil
}

// decodeSamples converts the first n big-endian samples of raw to float64.
func decodeSamples(raw []byte, bitpix, n int) ([]float64, error) {
	size := bitpix / 8
	if size < 0 {
		size = -size
	}
	switch bitpix {
	case 8, 16, 32, 64, -32, -64:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitpix, bitpix)
	}
	if len(raw) < n*size {
		return nil, fmt.Errorf("image data truncated: %d bytes for %d samples of %d bytes", len(raw), n, size)
	}

	be := binary.BigEndian
	samples := make([]float64, n)
	for i := range samples {
		b := raw[i*size:]
		switch bitpix {
		case 8:
			samples[i] = float64(b[0])
		case 16:
			samples[i] = float64(int16(be.Uint16(b)))
		case 32:
			samples[i] = float64(int32(be.Uint32(b)))
		case 64:
			samples[i] = float64(int64(be.Uint64(b)))
		case -32:
			samples[i] = float64(math.Float32frombits(be.Uint32(b)))
		case -64:
			samples[i] = math.Float64frombits(be.Uint64(b))
		}
	}
	return samples, nil
}

func headerCards(hdr *fitsio.Header) []Card {
	keys := hdr.Keys()
	cards := make([]Card, 0, len(keys))
	for i := range keys {
		card := hdr.Card(i)
		if card == nil {
			continue
		}
		cards = append(cards, Card{Name: card.Name, Value: card.Value, Comment: card.Comment})
	}
	return cards
}

func floatKey(hdr *fitsio.Header, name string, fallback float64) float64 {
	card := hdr.Get(name)
	if card == nil {
		return fallback
	}
	if v, ok := toFloat(card.Value); ok {
		return v
	}
	return fallback
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return 0, false
}

// Card returns the first card named name.
func (img *Image) Card(name string) (Card, bool) {
	for _, c := range img.Cards {
		if c.Name == name {
			return c, true
		}
	}
	return Card{}, false
}

func (img *Image) stringKey(name, fallback string) string {
	c, ok := img.Card(name)
	if !ok || c.Value == nil {
		return fallback
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", c.Value))
	if s == "" {
		return fallback
	}
	return s
}

// Object is the OBJECT keyword, or "Unknown".
func (img *Image) Object() string { return img.stringKey("OBJECT", "Unknown") }

// DateObs is DATE-OBS with the 'T' separator replaced by a space, or "".
func (img *Image) DateObs() string {
	return strings.Replace(img.stringKey("DATE-OBS", ""), "T", " ", 1)
}

// HeaderLines formats the first n cards (all cards if n <= 0).
func (img *Image) HeaderLines(n int) []string {
	cards := img.Cards
	if n > 0 && n < len(cards) {
		cards = cards[:n]
	}
	lines := make([]string, 0, len(cards))
	for _, card := range cards {
		if card.Comment == "" {
			lines = append(lines, fmt.Sprintf("%8s: %8v", card.Name, card.Value))
		} else {
			lines = append(lines, fmt.Sprintf("%8s: %8v (%s)", card.Name, card.Value, card.Comment))
		}
	}
	return lines
}
