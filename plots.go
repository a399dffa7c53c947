package main

import (
	"bytes"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/dialog"

	"FITScomposer/histogram"
)

func showHistograms() {
	view, _, ok := myWin.images.current()
	if !ok {
		showNoImages()
		return
	}

	opts := histogram.DefaultOptions("normalized channel histograms")
	pngBytes, err := histogram.PNG(histogram.ChannelSeries(view), opts)
	if err != nil {
		dialog.ShowError(err, myWin.parentWindow)
		return
	}

	pngWin := myWin.App.NewWindow("Channel histograms")
	pngWin.Resize(fyne.Size{Height: 450, Width: 900})

	plotImage := canvas.NewImageFromReader(bytes.NewReader(pngBytes), "histograms.png")
	plotImage.FillMode = canvas.ImageFillContain
	pngWin.SetContent(plotImage)
	pngWin.CenterOnScreen()
	pngWin.Show()
}
