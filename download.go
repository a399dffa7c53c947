package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"FITScomposer/skyquery"
)

func downloadEntry() {
	if myWin.downloading.Load() {
		dialog.ShowInformation("Busy", "A download is already running.", myWin.parentWindow)
		return
	}
	nameWidget := widget.NewEntry()
	nameWidget.SetPlaceHolder("e.g. M42, NGC 1976, Horsehead Nebula")
	items := []*widget.FormItem{widget.NewFormItem("object", nameWidget)}
	dialog.ShowForm("Object name", "Download", "Cancel", items,
		func(ok bool) {
			name := strings.TrimSpace(nameWidget.Text)
			if !ok || name == "" {
				return
			}
			if !myWin.downloading.CompareAndSwap(false, true) {
				dialog.ShowInformation("Busy", "A download is already running.", myWin.parentWindow)
				return
			}
			go downloadObject(name, myWin.sky)
		}, myWin.parentWindow)
}

// downloadObject runs off the UI goroutine on a copy of the settings. The
// caller has already set myWin.downloading.
func downloadObject(name string, sky skyquery.Config) {
	myWin.busyBar.Show()
	myWin.busyBar.Start()
	defer func() {
		myWin.busyBar.Stop()
		myWin.busyBar.Hide()
		myWin.downloading.Store(false)
	}()
	setStatus("Resolving %s ...", name)

	client := skyquery.NewClient(sky)
	ctx, cancel := context.WithTimeout(context.Background(), 4*sky.Timeout)
	defer cancel()

	res, err := client.Download(ctx, name)
	if errors.Is(err, skyquery.ErrObjectNotFound) {
		dialog.ShowInformation("Not found", fmt.Sprintf("The object '%s' was not found by the name resolver.", name), myWin.parentWindow)
		return
	}
	if err != nil {
		dialog.ShowError(err, myWin.parentWindow)
		return
	}
	setStatus("Coordinates of %s: %s", name, res.Position)

	if !res.Complete() {
		dialog.ShowInformation("Download incomplete", downloadSummary(res), myWin.parentWindow)
		return
	}
	slog.Info("download complete", "object", name, "files", res.Paths())
	loadChannelPaths(res.Paths())
}

func downloadSummary(res skyquery.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s\n\n", res.Object, res.Position)
	for i, ch := range res.Channels {
		if ch.Err != nil {
			fmt.Fprintf(&b, "%s (%s): failed: %v\n", channelNames[i], ch.Survey, ch.Err)
		} else {
			fmt.Fprintf(&b, "%s (%s): saved to %s\n", channelNames[i], ch.Survey, ch.Path)
		}
	}
	b.WriteString("\nTry another survey in Help > Survey settings.")
	return b.String()
}
