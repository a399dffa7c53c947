package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"FITScomposer/export"
	"FITScomposer/fitsfile"
	"FITScomposer/pipeline"
)

// Slider range for the gains. Compose accepts any positive gain.
const (
	minGain = 0.5
	maxGain = 2.0
)

// loadViewState opens three FITS files and normalizes them as red, green, blue.
func loadViewState(paths []string) (pipeline.ViewState, [3]*fitsfile.Image, error) {
	var images [3]*fitsfile.Image
	if len(paths) != 3 {
		return pipeline.ViewState{}, images, fmt.Errorf("exactly 3 FITS files are needed (red, green, blue), got %d", len(paths))
	}
	for i, path := range paths {
		img, err := fitsfile.Open(path)
		if err != nil {
			return pipeline.ViewState{}, images, fmt.Errorf("%s channel: %w", strings.ToLower(channelNames[i]), err)
		}
		images[i] = img
	}
	view, err := viewFromImages(images)
	return view, images, err
}

func viewFromImages(images [3]*fitsfile.Image) (pipeline.ViewState, error) {
	return pipeline.NewViewState(images[0].Grid, images[1].Grid, images[2].Grid)
}

// parseGains reads "r,g,b".
func parseGains(s string) (pipeline.Gains, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return pipeline.Gains{}, fmt.Errorf("%w: want three comma separated gains, got %q", pipeline.ErrInvalidParameter, s)
	}
	var values [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return pipeline.Gains{}, fmt.Errorf("%w: %s gain %q", pipeline.ErrInvalidParameter, strings.ToLower(channelNames[i]), p)
		}
		values[i] = v
	}
	return pipeline.Gains{Red: values[0], Green: values[1], Blue: values[2]}, nil
}

func currentGains() pipeline.Gains {
	return pipeline.Gains{
		Red:   myWin.sliders[0].Value,
		Green: myWin.sliders[1].Value,
		Blue:  myWin.sliders[2].Value,
	}
}

// setView installs a new view and refreshes everything that shows it.
func setView(view pipeline.ViewState, images [3]*fitsfile.Image) {
	myWin.images.set(view, images)
	updateIndividualImages()
	updateCompositeImage()
}

func updateIndividualImages() {
	view, headers, ok := myWin.images.current()
	if !ok {
		return
	}
	for i, ch := range view.Channels() {
		myWin.channelImages[i].Image = pipeline.GrayImage(ch)
		myWin.channelImages[i].Refresh()
		img := headers[i]
		myWin.channelLabels[i].SetText(fmt.Sprintf("%s channel: %s (%s)", channelNames[i], filepath.Base(img.Path), img.Object()))
	}
}

func updateCompositeImage() {
	gains := currentGains()
	next, ok := myWin.images.withGains(gains)
	if !ok {
		return
	}
	composite, err := next.Composite()
	if err != nil {
		// The previous composite stays on screen
		dialog.ShowError(err, myWin.parentWindow)
		return
	}
	for i, key := range gainKeys {
		myWin.App.Preferences().SetFloat(key, myWin.sliders[i].Value)
	}

	myWin.compositeImage.Image = pipeline.RGBImage(composite)
	myWin.compositeImage.Refresh()
	slog.Debug("composite updated", "red", gains.Red, "green", gains.Green, "blue", gains.Blue)
}

func resetGains() {
	for i, s := range myWin.sliders {
		s.SetValue(1.0)
		myWin.gainLabels[i].SetText(gainText(i, 1.0))
	}
	updateCompositeImage()
}

// loadChannelPaths is the common end of every way of picking three files.
func loadChannelPaths(paths []string) {
	view, images, err := loadViewState(paths)
	if err != nil {
		dialog.ShowError(err, myWin.parentWindow)
		return
	}
	setView(view, images)
	setStatus("FITS files loaded: %s, %s, %s",
		filepath.Base(paths[0]), filepath.Base(paths[1]), filepath.Base(paths[2]))
}

func chooseChannelFile(channel int) {
	open := dialog.NewFileOpen(
		func(reader fyne.URIReadCloser, err error) { processChannelFileSelection(channel, reader, err) },
		myWin.parentWindow,
	)
	open.SetFilter(storage.NewExtensionFileFilter(fitsExtensions))
	if lister := lastFolderLister(); lister != nil {
		open.SetLocation(lister)
	}
	open.Resize(fyne.Size{Width: 800, Height: 600})
	open.Show()
}

func processChannelFileSelection(channel int, reader fyne.URIReadCloser, err error) {
	if err != nil {
		dialog.ShowError(err, myWin.parentWindow)
		return
	}
	if reader == nil {
		return // cancelled
	}
	defer reader.Close()

	path := reader.URI().Path()
	img, err := fitsfile.Decode(reader, path)
	if err != nil {
		dialog.ShowError(err, myWin.parentWindow)
		return
	}
	rememberFolder(filepath.Dir(path))

	images, missing := myWin.images.addPending(channel, img)
	if missing >= 0 {
		setStatus("%s channel loaded; waiting for %s", channelNames[channel], strings.ToLower(channelNames[missing]))
		return
	}
	view, err := viewFromImages(images)
	if err != nil {
		dialog.ShowError(err, myWin.parentWindow)
		myWin.images.dropPending(channel)
		return
	}
	setView(view, images)
	setStatus("%s channel replaced by %s", channelNames[channel], filepath.Base(path))
}

func closeImages() {
	myWin.images.clear()
	for i, ci := range myWin.channelImages {
		ci.Image = nil
		ci.Refresh()
		myWin.channelLabels[i].SetText(channelNames[i] + " channel")
	}
	myWin.compositeImage.Image = nil
	myWin.compositeImage.Refresh()
	setStatus("Images closed.")
}

func showNoImages() {
	dialog.ShowInformation("Oops", "Load three FITS files first.", myWin.parentWindow)
}

func exportComposite() {
	_, headers, ok := myWin.images.current()
	if !ok {
		showNoImages()
		return
	}
	save := dialog.NewFileSave(
		func(writer fyne.URIWriteCloser, err error) { processExportSelection(writer, err) },
		myWin.parentWindow,
	)
	save.SetFileName(headers[0].Object() + "_rgb.png")
	save.SetFilter(storage.NewExtensionFileFilter(export.Extensions))
	save.Resize(fyne.Size{Width: 800, Height: 600})
	save.Show()
}

func processExportSelection(writer fyne.URIWriteCloser, err error) {
	if err != nil {
		dialog.ShowError(err, myWin.parentWindow)
		return
	}
	if writer == nil {
		return
	}
	defer writer.Close()

	format, err := export.FormatFor(writer.URI().Path())
	if errors.Is(err, export.ErrUnknownFormat) {
		format = export.PNG // no extension typed: default to PNG
	}
	view, _, _ := myWin.images.current()
	composite, err := view.Composite()
	if err == nil {
		err = export.Encode(writer, pipeline.RGBImage(composite), format)
	}
	if err != nil {
		dialog.ShowError(err, myWin.parentWindow)
		return
	}
	setStatus("Composite written to %s", writer.URI().Path())
}
