package main

import (
	_ "embed"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"FITScomposer/skyquery"
)

// Config holds the GUI state. It is the only mutable copy of what is on
// screen; the pipeline only ever sees the immutable view value.
type Config struct {
	App          fyne.App
	parentWindow fyne.Window

	images viewStore

	channelImages  [3]*canvas.Image
	channelLabels  [3]*widget.Label
	compositeImage *canvas.Image
	compositeLabel *widget.Label
	sliders        [3]*widget.Slider
	gainLabels     [3]*widget.Label
	statusLabel    *widget.Label
	busyBar        *widget.ProgressBarInfinite

	sky           skyquery.Config
	skyConfigPath string
	downloading   atomic.Bool
}

const version = " 1.0.0"

var channelNames = [3]string{"Red", "Green", "Blue"}

// Preference keys for the gains, in channel order.
var gainKeys = [3]string{"redGain", "greenGain", "blueGain"}

//go:embed help.txt
var helpText string

var myWin Config

var (
	fLight      bool
	fVerbose    bool
	fConfig     string
	fCompose    string
	fGains      string
	fOutput     string
	fInspect    string
	fInspectGUI bool
)

func init() {
	flag.BoolVar(&fLight, "light", false, "start with the light theme")
	flag.BoolVar(&fVerbose, "v", false, "debug logging")
	flag.StringVar(&fConfig, "config", "fitscomposer.yaml", "sky query settings file (YAML)")
	flag.StringVar(&fCompose, "compose", "", "red,green,blue FITS files: write the composite to -o and exit")
	flag.StringVar(&fGains, "gains", "1,1,1", "red,green,blue gains used with -compose")
	flag.StringVar(&fOutput, "o", "composite.png", "output image for -compose (.png .jpg .tif .bmp)")
	flag.StringVar(&fInspect, "inspect", "", "print statistics and header of a FITS file")
	flag.BoolVar(&fInspectGUI, "show", false, "with -inspect, also open the stretch comparison window")
}

func main() {
	flag.Parse()
	setupLogging(fVerbose, os.Stderr)

	if fCompose != "" {
		if err := runCompose(fCompose, fGains, fOutput); err != nil {
			slog.Error("compose failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if fInspect != "" && !fInspectGUI {
		report, err := inspectFile(fInspect)
		if err != nil {
			slog.Error("inspect failed", "err", err)
			os.Exit(1)
		}
		fmt.Print(report)
		return
	}

	sky, err := skyquery.LoadConfig(fConfig)
	if err != nil {
		slog.Warn("using default sky query settings", "config", fConfig, "err", err)
		sky = skyquery.DefaultConfig()
	}
	myWin.sky = sky
	myWin.skyConfigPath = fConfig

	// We supply an ID because we need to use the preferences API
	myApp := app.NewWithID("org.fitscomposer.app")
	myWin.App = myApp

	// We start the app using the dark theme. The View menu allows a change.
	variant := theme.VariantDark
	if fLight {
		variant = theme.VariantLight
	}
	myApp.Settings().SetTheme(&forcedVariant{Theme: theme.DefaultTheme(), variant: variant})

	w := myApp.NewWindow("FITS RGB composer" + version)
	w.Resize(fyne.Size{Height: 750, Width: 1100})
	myWin.parentWindow = w

	w.SetMainMenu(buildMainMenu())
	w.SetContent(buildContent())
	w.CenterOnScreen()

	if fInspect != "" {
		showInspectWindow(fInspect)
	}

	w.ShowAndRun()
}

func buildMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Load RGB folder...", func() { chooseRgbFolder() }),
		fyne.NewMenuItem("Load red channel...", func() { chooseChannelFile(0) }),
		fyne.NewMenuItem("Load green channel...", func() { chooseChannelFile(1) }),
		fyne.NewMenuItem("Load blue channel...", func() { chooseChannelFile(2) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Download from object name...", func() { downloadEntry() }),
		fyne.NewMenuItem("Inspect FITS file...", func() { chooseInspectFile() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export composite...", func() { exportComposite() }),
		fyne.NewMenuItem("Close images", func() { closeImages() }),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Dark theme", func() {
			myWin.App.Settings().SetTheme(&forcedVariant{Theme: theme.DefaultTheme(), variant: theme.VariantDark})
		}),
		fyne.NewMenuItem("Light theme", func() {
			myWin.App.Settings().SetTheme(&forcedVariant{Theme: theme.DefaultTheme(), variant: theme.VariantLight})
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Channel histograms", func() { showHistograms() }),
		fyne.NewMenuItem("Meta-data", func() { showMetaData() }),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Help", func() { showHelp() }),
		fyne.NewMenuItem("Survey settings...", func() { showSkySettings() }),
	)
	return fyne.NewMainMenu(fileMenu, viewMenu, helpMenu)
}

func buildContent() fyne.CanvasObject {
	leftItem := container.NewVBox()
	for i := range channelNames {
		ci := canvas.NewImageFromImage(nil)
		ci.FillMode = canvas.ImageFillContain
		ci.SetMinSize(fyne.NewSize(300, 200))
		myWin.channelImages[i] = ci
		myWin.channelLabels[i] = widget.NewLabel(channelNames[i] + " channel")
		leftItem.Add(container.NewBorder(myWin.channelLabels[i], nil, nil, nil, ci))
	}

	myWin.compositeImage = canvas.NewImageFromImage(nil)
	myWin.compositeImage.FillMode = canvas.ImageFillContain
	myWin.compositeImage.SetMinSize(fyne.NewSize(500, 500))
	myWin.compositeLabel = widget.NewLabel("Combined RGB image")

	sliderRow := container.NewGridWithColumns(3)
	for i := range channelNames {
		i := i
		value := myWin.App.Preferences().FloatWithFallback(gainKeys[i], 1.0)
		if value < minGain || value > maxGain {
			value = 1.0
		}
		slider := widget.NewSlider(minGain, maxGain)
		slider.Step = 0.01
		slider.Value = value
		myWin.gainLabels[i] = widget.NewLabel(gainText(i, value))
		slider.OnChanged = func(v float64) { myWin.gainLabels[i].SetText(gainText(i, v)) }
		// Recompute only when the user lets go of the slider
		slider.OnChangeEnded = func(float64) { updateCompositeImage() }
		myWin.sliders[i] = slider
		sliderRow.Add(container.NewVBox(myWin.gainLabels[i], slider))
	}
	resetButton := widget.NewButton("Reset gains", func() { resetGains() })
	sliders := widget.NewCard("Adjust RGB intensities", "", container.NewBorder(nil, nil, nil, resetButton, sliderRow))

	myWin.statusLabel = widget.NewLabel("Load three FITS files to build a composite.")
	myWin.busyBar = widget.NewProgressBarInfinite()
	myWin.busyBar.Stop()
	myWin.busyBar.Hide()
	statusRow := container.NewHBox(myWin.statusLabel, layout.NewSpacer())

	rightItem := container.NewBorder(
		container.NewHBox(layout.NewSpacer(), myWin.compositeLabel, layout.NewSpacer()),
		container.NewVBox(sliders, myWin.busyBar, statusRow),
		nil,
		nil,
		myWin.compositeImage)

	return container.NewBorder(nil, nil, leftItem, nil, rightItem)
}

func gainText(i int, v float64) string {
	return fmt.Sprintf("%s x%.2f", channelNames[i], v)
}

func setStatus(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	slog.Info(msg)
	if myWin.statusLabel != nil {
		myWin.statusLabel.SetText(msg)
	}
}

type forcedVariant struct {
	fyne.Theme

	variant fyne.ThemeVariant
}

func (f *forcedVariant) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return f.Theme.Color(name, f.variant)
}

func showHelp() {
	helpWin := myWin.App.NewWindow("Help")
	helpWin.Resize(fyne.Size{Height: 450, Width: 700})
	scrollableText := container.NewVScroll(widget.NewRichTextWithText(helpText))
	helpWin.SetContent(scrollableText)
	helpWin.Show()
	helpWin.CenterOnScreen()
}

func showMetaData() {
	_, headers, ok := myWin.images.current()
	if !ok {
		showNoImages()
		return
	}
	metaWin := myWin.App.NewWindow("FITS Meta-data")
	metaWin.Resize(fyne.Size{Height: 600, Width: 700})

	tabs := container.NewAppTabs()
	for i, img := range headers {
		text := strings.Join(img.HeaderLines(0), "\n")
		tabs.Append(container.NewTabItem(channelNames[i], container.NewVScroll(widget.NewRichTextWithText(text))))
	}
	metaWin.SetContent(tabs)
	metaWin.Show()
	metaWin.CenterOnScreen()
}
