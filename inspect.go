package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/montanaflynn/stats"

	"FITScomposer/fitsfile"
	"FITScomposer/pipeline"
)

const headerExcerptCards = 10

// imageReport describes one image: dimensions, statistics, header excerpt.
func imageReport(img *fitsfile.Image) (string, error) {
	g := img.Grid
	badSamples := 0
	for _, v := range g.Pix {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			badSamples++
		}
	}
	data := stats.Float64Data(pipeline.Sanitize(g).Pix)

	minVal, err := data.Min()
	if err != nil {
		return "", fmt.Errorf("%s: %w", img.Path, err)
	}
	maxVal, _ := data.Max()
	meanVal, _ := data.Mean()
	medianVal, _ := data.Median()
	stdVal, _ := data.StandardDeviation()
	lo, hi, err := pipeline.PercentileRange(g, pipeline.LowPercentile, pipeline.HighPercentile)
	if err != nil {
		return "", fmt.Errorf("%s: %w", img.Path, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", img.Path)
	fmt.Fprintf(&b, "Image dimensions: %d x %d (axes %v, BITPIX %d)\n", g.Width, g.Height, img.Axes, img.Bitpix)
	fmt.Fprintf(&b, "Min value: %g, Max value: %g\n", minVal, maxVal)
	fmt.Fprintf(&b, "Mean: %g, Median: %g, Std: %g\n", meanVal, medianVal, stdVal)
	fmt.Fprintf(&b, "Percentile range (1%%-99%%): %g .. %g\n", lo, hi)
	if lo == hi {
		b.WriteString("Flat image: the percentile stretch is all black\n")
	}
	if badSamples > 0 {
		fmt.Fprintf(&b, "Non-finite samples replaced by 0: %d\n", badSamples)
	}
	fmt.Fprintf(&b, "\nHeader (first %d cards):\n", headerExcerptCards)
	for _, line := range img.HeaderLines(headerExcerptCards) {
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "\nObserved object: %s\n", img.Object())
	if ts := img.DateObs(); ts != "" {
		fmt.Fprintf(&b, "Observation date: %s\n", ts)
	}
	return b.String(), nil
}

func inspectFile(path string) (string, error) {
	img, err := fitsfile.Open(path)
	if err != nil {
		return "", err
	}
	return imageReport(img)
}

func chooseInspectFile() {
	open := dialog.NewFileOpen(
		func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, myWin.parentWindow)
				return
			}
			if reader == nil {
				return
			}
			path := reader.URI().Path()
			reader.Close()
			showInspectWindow(path)
		},
		myWin.parentWindow,
	)
	open.SetFilter(storage.NewExtensionFileFilter(fitsExtensions))
	if lister := lastFolderLister(); lister != nil {
		open.SetLocation(lister)
	}
	open.Resize(fyne.Size{Width: 800, Height: 600})
	open.Show()
}

// showInspectWindow shows one file with each display stretch side by side.
func showInspectWindow(path string) {
	img, err := fitsfile.Open(path)
	if err != nil {
		dialog.ShowError(err, myWin.parentWindow)
		return
	}
	report, err := imageReport(img)
	if err != nil {
		dialog.ShowError(err, myWin.parentWindow)
		return
	}

	panels := container.NewGridWithColumns(len(pipeline.Stretches()))
	for _, s := range pipeline.Stretches() {
		ch, err := pipeline.Apply(img.Grid, s)
		if err != nil {
			dialog.ShowError(err, myWin.parentWindow)
			return
		}
		ci := canvas.NewImageFromImage(pipeline.GrayImage(ch))
		ci.FillMode = canvas.ImageFillContain
		ci.SetMinSize(fyne.NewSize(300, 300))
		title := widget.NewLabelWithStyle(s.String(), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
		panels.Add(container.NewBorder(title, nil, nil, nil, ci))
	}

	reportText := widget.NewLabel(report)
	reportText.TextStyle = fyne.TextStyle{Monospace: true}

	inspectWin := myWin.App.NewWindow("Inspect " + filepath.Base(path))
	inspectWin.Resize(fyne.Size{Height: 750, Width: 1100})
	inspectWin.SetContent(container.NewVSplit(panels, container.NewVScroll(reportText)))
	inspectWin.CenterOnScreen()
	inspectWin.Show()
}
