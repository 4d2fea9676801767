package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/tubegrab/tubegrab/internal/config"
	"github.com/tubegrab/tubegrab/internal/model"
)

// ShowSettingsDialog presents the application settings form. onSaved runs
// after the settings have been written.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, onSaved func()) {
	downloadDirEntry := widget.NewEntry()
	downloadDirEntry.SetText(settings.GetDownloadDirectory())

	browseBtn := widget.NewButton("Browse", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err == nil && uri != nil {
				downloadDirEntry.SetText(uri.Path())
			}
		}, window)
	})
	downloadDirRow := container.NewBorder(nil, nil, nil, browseBtn, downloadDirEntry)

	maxParallelEntry := widget.NewEntry()
	maxParallelEntry.SetText(strconv.Itoa(settings.GetMaxParallelDownloads()))
	maxParallelEntry.SetPlaceHolder("1-10")

	modeSelect := widget.NewSelect(
		[]string{model.ModeAudio.String(), model.ModeVideo.String()}, nil)
	modeSelect.SetSelected(settings.GetDefaultMode().String())

	cookieEntry := widget.NewEntry()
	cookieEntry.SetText(settings.GetCookieFile())
	cookieEntry.SetPlaceHolder("Path to a Netscape cookies.txt export (optional)")

	restoreCheck := widget.NewCheck("Restore unfinished tasks on launch", nil)
	restoreCheck.SetChecked(settings.GetRestoreTasksOnStart())

	form := container.NewVBox(
		widget.NewLabel("Download Directory:"),
		downloadDirRow,
		widget.NewLabel("Max Parallel Downloads:"),
		maxParallelEntry,
		widget.NewLabel("Default Mode:"),
		modeSelect,
		widget.NewLabel("Cookie File:"),
		cookieEntry,
		widget.NewSeparator(),
		restoreCheck,
	)

	dialog.ShowCustomConfirm("Settings", "Save", "Cancel", form, func(ok bool) {
		if !ok {
			return
		}
		settings.SetDownloadDirectory(downloadDirEntry.Text)
		if n, err := strconv.Atoi(maxParallelEntry.Text); err == nil {
			settings.SetMaxParallelDownloads(n)
		}
		settings.SetDefaultMode(model.Mode(modeSelect.Selected))
		settings.SetCookieFile(cookieEntry.Text)
		settings.SetRestoreTasksOnStart(restoreCheck.Checked)
		if onSaved != nil {
			onSaved()
		}
	}, window)
}
