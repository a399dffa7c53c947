// Package histogram draws intensity histograms of channels with gonum/plot.
package histogram

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"FITScomposer/pipeline"
)

var ErrNoSamples = errors.New("no samples to plot")

type Options struct {
	Title  string
	XLabel string
	Bins   int
	Width  vg.Length
	Height vg.Length
}

func DefaultOptions(title string) Options {
	return Options{
		Title:  title,
		XLabel: "normalized intensity",
		Bins:   64,
		Width:  8 * vg.Inch,
		Height: 4 * vg.Inch,
	}
}

// Series is one histogram layer.
type Series struct {
	Name   string
	Values []float64
	Color  color.Color
}

// ChannelSeries returns the three channels of a view as red, green and blue layers.
func ChannelSeries(v pipeline.ViewState) []Series {
	chs := v.Channels()
	return []Series{
		{Name: "red", Values: chs[0].Pix, Color: color.NRGBA{R: 220, A: 110}},
		{Name: "green", Values: chs[1].Pix, Color: color.NRGBA{G: 200, A: 110}},
		{Name: "blue", Values: chs[2].Pix, Color: color.NRGBA{B: 230, A: 110}},
	}
}

// Build returns a plot with one histogram per series.
func Build(series []Series, opts Options) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, ErrNoSamples
	}
	if opts.Bins < 1 {
		opts.Bins = 64
	}

	plt := plot.New()
	plt.Title.Text = opts.Title
	plt.Title.TextStyle.Font.Size = font.Points(16)
	plt.X.Label.Text = opts.XLabel
	plt.Y.Label.Text = "pixel count"

	for _, s := range series {
		if len(s.Values) == 0 {
			return nil, fmt.Errorf("%s: %w", s.Name, ErrNoSamples)
		}
		h, err := plotter.NewHist(plotter.Values(s.Values), opts.Bins)
		if err != nil {
			return nil, fmt.Errorf("%s histogram: %w", s.Name, err)
		}
		if s.Color != nil {
			h.FillColor = s.Color
		}
		h.LineStyle.Width = vg.Length(0.5)
		plt.Add(h)
		if s.Name != "" {
			plt.Legend.Add(s.Name, h)
		}
	}
	plt.Legend.Top = true
	return plt, nil
}

// PNG renders the histograms as a PNG image.
func PNG(series []Series, opts Options) ([]byte, error) {
	plt, err := Build(series, opts)
	if err != nil {
		return nil, err
	}
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = 8*vg.Inch, 4*vg.Inch
	}
	wt, err := plt.WriterTo(w, h, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
