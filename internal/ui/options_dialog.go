package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/tubegrab/tubegrab/internal/model"
)

// ShowOptionsDialog presents the per-task option set as checkboxes and
// hands the edited result to onApply when confirmed.
func ShowOptionsDialog(window fyne.Window, task model.DownloadTask, onApply func(model.Options)) {
	opts := task.Options

	embedMetadata := widget.NewCheck("Embed metadata tags", nil)
	embedMetadata.SetChecked(opts.EmbedMetadata)
	embedThumbnail := widget.NewCheck("Embed thumbnail as cover art", nil)
	embedThumbnail.SetChecked(opts.EmbedThumbnail)
	writeInfoJSON := widget.NewCheck("Write .info.json sidecar", nil)
	writeInfoJSON.SetChecked(opts.WriteInfoJSON)
	writeDescription := widget.NewCheck("Write .description sidecar", nil)
	writeDescription.SetChecked(opts.WriteDescription)
	writeSubtitles := widget.NewCheck("Write subtitles", nil)
	writeSubtitles.SetChecked(opts.WriteSubtitles)
	includeAuthor := widget.NewCheck("Prefix filenames with the uploader", nil)
	includeAuthor.SetChecked(opts.IncludeAuthor)

	albumOverride := widget.NewCheck("Use playlist title as album tag", nil)
	albumOverride.SetChecked(opts.PlaylistAlbumOverride)
	createM3U := widget.NewCheck("Create .m3u playlist file", nil)
	createM3U.SetChecked(opts.CreateM3U)
	m3uToParent := widget.NewCheck("Place .m3u next to the playlist folder", nil)
	m3uToParent.SetChecked(opts.M3UToParent)
	forceRedownload := widget.NewCheck("Force redownload of archived items", nil)
	forceRedownload.SetChecked(opts.ForcePlaylistRedownload)

	playlistSection := container.NewVBox(
		widget.NewSeparator(),
		widget.NewLabel("Playlist"),
		albumOverride, createM3U, m3uToParent, forceRedownload,
	)
	if !task.Playlist {
		playlistSection.Hide()
	}

	content := container.NewVBox(
		embedMetadata, embedThumbnail, writeInfoJSON,
		writeDescription, writeSubtitles, includeAuthor,
		playlistSection,
	)

	dialog.ShowCustomConfirm("Task Options", "Apply", "Cancel", content, func(ok bool) {
		if !ok {
			return
		}
		onApply(model.Options{
			EmbedMetadata:           embedMetadata.Checked,
			EmbedThumbnail:          embedThumbnail.Checked,
			WriteInfoJSON:           writeInfoJSON.Checked,
			WriteDescription:        writeDescription.Checked,
			WriteSubtitles:          writeSubtitles.Checked,
			IncludeAuthor:           includeAuthor.Checked,
			PlaylistAlbumOverride:   albumOverride.Checked,
			CreateM3U:               createM3U.Checked,
			M3UToParent:             m3uToParent.Checked,
			ForcePlaylistRedownload: forceRedownload.Checked,
		})
	}, window)
}
