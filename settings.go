package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/qdm12/reprint"

	"FITScomposer/skyquery"
)

// editSkyConfig applies the dialog fields to a deep copy of c, so that a
// rejected edit leaves c (and its Extra map) untouched.
//
// extra holds SkyView query parameters as "Key=Value" pairs separated by
// commas. "Key=" removes a parameter.
func editSkyConfig(c skyquery.Config, red, green, blue, pixels, timeout, outputDir, extra string) (skyquery.Config, error) {
	draft := reprint.This(c).(skyquery.Config)

	if err := applyExtra(&draft, extra); err != nil {
		return c, err
	}
	draft.Surveys = skyquery.Surveys{Red: red, Green: green, Blue: blue}
	n, err := strconv.Atoi(pixels)
	if err != nil {
		return c, fmt.Errorf("pixels: an integer is needed here")
	}
	draft.Pixels = n
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return c, fmt.Errorf("timeout: %w", err)
	}
	draft.Timeout = d
	if outputDir != "" {
		draft.OutputDir = outputDir
	}
	if err := draft.Validate(); err != nil {
		return c, err
	}
	return draft, nil
}

func applyExtra(draft *skyquery.Config, extra string) error {
	if draft.Extra == nil {
		draft.Extra = map[string]string{}
	}
	for _, pair := range strings.Split(extra, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return fmt.Errorf("extra: '%s' is not Key=Value", pair)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			delete(draft.Extra, key)
			continue
		}
		draft.Extra[key] = value
	}
	if len(draft.Extra) == 0 {
		draft.Extra = nil
	}
	return nil
}

// extraText is the inverse of applyExtra, sorted by key.
func extraText(extra map[string]string) string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + extra[k]
	}
	return strings.Join(pairs, ", ")
}

func showSkySettings() {
	c := myWin.sky
	redWidget := widget.NewEntry()
	redWidget.SetText(c.Surveys.Red)
	greenWidget := widget.NewEntry()
	greenWidget.SetText(c.Surveys.Green)
	blueWidget := widget.NewEntry()
	blueWidget.SetText(c.Surveys.Blue)
	pixelsWidget := widget.NewEntry()
	pixelsWidget.SetText(strconv.Itoa(c.Pixels))
	timeoutWidget := widget.NewEntry()
	timeoutWidget.SetText(c.Timeout.String())
	dirWidget := widget.NewEntry()
	dirWidget.SetText(c.OutputDir)
	extraWidget := widget.NewEntry()
	extraWidget.SetPlaceHolder("e.g. Sampler=Clip, Scaling=Log")
	extraWidget.SetText(extraText(c.Extra))

	items := []*widget.FormItem{
		widget.NewFormItem("red survey", redWidget),
		widget.NewFormItem("green survey", greenWidget),
		widget.NewFormItem("blue survey", blueWidget),
		widget.NewFormItem("pixels", pixelsWidget),
		widget.NewFormItem("timeout", timeoutWidget),
		widget.NewFormItem("save to", dirWidget),
		widget.NewFormItem("extra params", extraWidget),
	}
	dialog.ShowForm("Survey settings", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		next, err := editSkyConfig(myWin.sky, redWidget.Text, greenWidget.Text, blueWidget.Text,
			pixelsWidget.Text, timeoutWidget.Text, dirWidget.Text, extraWidget.Text)
		if err != nil {
			dialog.ShowInformation("Oops", err.Error(), myWin.parentWindow)
			return
		}
		myWin.sky = next
		if err := skyquery.SaveConfig(myWin.skyConfigPath, next); err != nil {
			dialog.ShowError(err, myWin.parentWindow)
			return
		}
		setStatus("Survey settings saved to %s", myWin.skyConfigPath)
	}, myWin.parentWindow)
}
