package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tubegrab/tubegrab/internal/model"
	"github.com/tubegrab/tubegrab/internal/platform"
)

// FileName is the TOML settings file used by the terminal shells, which
// have no Fyne preferences store.
const FileName = "tubegrab.toml"

// FileSettings is the on-disk configuration for the CLI and TUI shells.
type FileSettings struct {
	DownloadDir string     `toml:"download_dir"`
	DefaultMode model.Mode `toml:"default_mode"`
	CookieFile  string     `toml:"cookie_file"`

	EmbedMetadata    bool `toml:"embed_metadata"`
	EmbedThumbnail   bool `toml:"embed_thumbnail"`
	WriteInfoJSON    bool `toml:"write_info_json"`
	WriteDescription bool `toml:"write_description"`
	WriteSubtitles   bool `toml:"write_subtitles"`
	IncludeAuthor    bool `toml:"include_author"`

	CreateM3U               bool `toml:"create_m3u"`
	M3UToParent             bool `toml:"m3u_to_parent"`
	PlaylistAlbumOverride   bool `toml:"playlist_album_override"`
	ForcePlaylistRedownload bool `toml:"force_playlist_redownload"`
}

// DefaultFileSettings returns the settings used when no file exists yet.
func DefaultFileSettings() FileSettings {
	dir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		dir = "."
	}
	opts := model.DefaultOptions()
	return FileSettings{
		DownloadDir:    dir,
		DefaultMode:    model.ModeAudio,
		EmbedMetadata:  opts.EmbedMetadata,
		EmbedThumbnail: opts.EmbedThumbnail,
		CreateM3U:      opts.CreateM3U,
	}
}

// Options converts the file settings into a task option set.
func (f FileSettings) Options() model.Options {
	return model.Options{
		EmbedMetadata:           f.EmbedMetadata,
		EmbedThumbnail:          f.EmbedThumbnail,
		WriteInfoJSON:           f.WriteInfoJSON,
		WriteDescription:        f.WriteDescription,
		WriteSubtitles:          f.WriteSubtitles,
		IncludeAuthor:           f.IncludeAuthor,
		PlaylistAlbumOverride:   f.PlaylistAlbumOverride,
		CreateM3U:               f.CreateM3U,
		M3UToParent:             f.M3UToParent,
		ForcePlaylistRedownload: f.ForcePlaylistRedownload,
	}
}

// ModeOrDefault returns the file's default download mode, falling back to
// audio when the file carries an unknown value.
func (f FileSettings) ModeOrDefault() model.Mode {
	if f.DefaultMode == model.ModeVideo {
		return model.ModeVideo
	}
	return model.ModeAudio
}

// LoadFile reads the TOML settings from path. A missing file yields the
// defaults without error; a malformed file is an error.
func LoadFile(path string) (FileSettings, error) {
	settings := DefaultFileSettings()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if _, err := toml.DecodeFile(path, &settings); err != nil {
		return settings, err
	}
	return settings, nil
}

// SaveFile writes the settings to path, creating parent directories.
func SaveFile(path string, settings FileSettings) error {
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(settings)
}

// DefaultFilePath returns the per-user location of the TOML settings file.
func DefaultFilePath(appName string) (string, error) {
	dir, err := platform.UserConfigDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}
