package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

var fitsExtensions = []string{".fits", ".fit", ".fts"}

func isFitsName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range fitsExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// getFitsFilenames lists the FITS files of a folder, sorted by name.
func getFitsFilenames(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	var fitsPaths []string
	for _, entry := range entries {
		if !entry.IsDir() && isFitsName(entry.Name()) {
			fitsPaths = append(fitsPaths, filepath.Join(folder, entry.Name()))
		}
	}
	sort.Strings(fitsPaths)
	return fitsPaths, nil
}

// rgbPathsInFolder returns the three FITS files of folder in red, green, blue
// (alphabetical) order. Any other count is an error.
func rgbPathsInFolder(folder string) ([]string, error) {
	paths, err := getFitsFilenames(folder)
	if err != nil {
		return nil, err
	}
	if len(paths) != 3 {
		return nil, fmt.Errorf("%s holds %d FITS files; exactly 3 are needed (red, green, blue)", folder, len(paths))
	}
	return paths, nil
}

func lastFolderLister() fyne.ListableURI {
	lastFitsFolderStr := myWin.App.Preferences().StringWithFallback("lastFitsFolder", "")
	if lastFitsFolderStr == "" {
		return nil
	}
	fitsDir, err := storage.ListerForURI(storage.NewFileURI(lastFitsFolderStr))
	if err != nil {
		myWin.App.Preferences().SetString("lastFitsFolder", "")
		return nil
	}
	return fitsDir
}

func rememberFolder(path string) {
	myWin.App.Preferences().SetString("lastFitsFolder", path)
}

func chooseRgbFolder() {
	showFolder := dialog.NewFolderOpen(
		func(path fyne.ListableURI, err error) { processRgbFolderSelection(path, err) },
		myWin.parentWindow,
	)
	showFolder.Resize(fyne.Size{
		Width:  800,
		Height: 600,
	})
	if fitsDir := lastFolderLister(); fitsDir != nil {
		showFolder.SetLocation(fitsDir)
	}
	showFolder.Show()
}

func processRgbFolderSelection(path fyne.ListableURI, err error) {
	if err != nil {
		dialog.ShowError(err, myWin.parentWindow)
		return
	}
	if path == nil {
		return
	}
	rememberFolder(path.Path())

	paths, err := rgbPathsInFolder(path.Path())
	if err != nil {
		dialog.ShowInformation("Oops", err.Error(), myWin.parentWindow)
		return
	}
	loadChannelPaths(paths)
}
