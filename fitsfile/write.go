package fitsfile

import (
	"fmt"
	"io"
	"os"

	"github.com/astrogo/fitsio"

	"FITScomposer/pipeline"
)

// Write encodes g as a BITPIX -64 primary image. Extra cards (OBJECT, ...)
// are appended to the header.
func Write(w io.Writer, g pipeline.Grid, cards ...Card) error {
	if g.Width < 1 || g.Height < 1 || len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("%w: %dx%d grid with %d samples", pipeline.ErrInvalidInput, g.Width, g.Height, len(g.Pix))
	}

	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("fitsio.Create: %w", err)
	}

	img := fitsio.NewImage(-64, []int{g.Width, g.Height})
	defer img.Close()

	for _, c := range cards {
		if err := img.Header().Append(fitsio.Card{Name: c.Name, Value: c.Value, Comment: c.Comment}); err != nil {
			return fmt.Errorf("could not append %s card: %w", c.Name, err)
		}
	}

	data := append([]float64(nil), g.Pix...)
	if err := img.Write(&data); err != nil {
		return fmt.Errorf("could not write image data: %w", err)
	}
	if err := f.Write(img); err != nil {
		return fmt.Errorf("could not write HDU: %w", err)
	}
	return f.Close()
}

// WriteFile is Write to a newly created (or truncated) file.
func WriteFile(path string, g pipeline.Grid, cards ...Card) error {
	fileHandle, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(fileHandle, g, cards...); err != nil {
		fileHandle.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return fileHandle.Close()
}
