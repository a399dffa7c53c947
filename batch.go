package main

import (
	"fmt"
	"log/slog"
	"strings"

	"FITScomposer/export"
	"FITScomposer/pipeline"
)

// runCompose is the headless path: three files in, one image out.
func runCompose(fileList, gainList, output string) error {
	paths := strings.Split(fileList, ",")
	for i := range paths {
		paths[i] = strings.TrimSpace(paths[i])
	}
	gains, err := parseGains(gainList)
	if err != nil {
		return err
	}
	if _, err := export.FormatFor(output); err != nil {
		return err
	}

	view, images, err := loadViewState(paths)
	if err != nil {
		return err
	}
	for i, img := range images {
		slog.Info("channel loaded", "channel", channelNames[i], "path", img.Path,
			"width", img.Grid.Width, "height", img.Grid.Height, "object", img.Object())
	}

	composite, err := view.WithGains(gains).Composite()
	if err != nil {
		return err
	}
	if err := export.Save(output, pipeline.RGBImage(composite)); err != nil {
		return fmt.Errorf("could not save composite: %w", err)
	}
	slog.Info("composite written", "path", output, "gains", fmt.Sprintf("%.2f,%.2f,%.2f", gains.Red, gains.Green, gains.Blue))
	return nil
}
