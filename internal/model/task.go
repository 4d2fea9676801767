package model

import (
	"fmt"
	"strings"
	"time"
)

// Options is the metadata option set attached to a task. All fields are
// named booleans so shells can bind checkboxes directly.
type Options struct {
	EmbedMetadata           bool `json:"embed_metadata"`
	EmbedThumbnail          bool `json:"embed_thumbnail"`
	WriteInfoJSON           bool `json:"write_info_json"`
	WriteDescription        bool `json:"write_description"`
	WriteSubtitles          bool `json:"write_subtitles"`
	IncludeAuthor           bool `json:"include_author"`
	PlaylistAlbumOverride   bool `json:"playlist_album_override"`
	CreateM3U               bool `json:"create_m3u"`
	M3UToParent             bool `json:"m3u_to_parent"`
	ForcePlaylistRedownload bool `json:"force_playlist_redownload"`
}

// DefaultOptions returns the option set new tasks start with.
func DefaultOptions() Options {
	return Options{
		EmbedMetadata:  true,
		EmbedThumbnail: true,
		CreateM3U:      true,
	}
}

// DownloadTask represents a single download task as observed by the shells.
// Runtime coordination (worker goroutine, abort token, tracker) lives in the
// download package; this struct is the reported view.
type DownloadTask struct {
	ID            string
	URL           string
	Mode          Mode
	Playlist      bool // auto-detected from URL shape
	OutputDir     string
	Options       Options
	CookieFile    string
	Status        TaskStatus
	Progress      float64 // 0.0 to 1.0
	Percent       int     // 0 to 100
	Speed         string  // human readable speed (e.g., "1.2MB/s")
	ETASec        int     // ETA in seconds, -1 if unknown
	LastError     string  // last error message if any
	OutputPath    string  // path of the file currently being written
	StartedAt     time.Time
	FinishedAt    time.Time
	Title         string // video title
	PlaylistTitle string
	Summary       Snapshot // playlist progress counts
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (dt *DownloadTask) GetETAString() string {
	if dt.ETASec <= 0 {
		return "—"
	}

	hours := dt.ETASec / 3600
	minutes := (dt.ETASec % 3600) / 60
	seconds := dt.ETASec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.PlaylistTitle != "" {
		return dt.PlaylistTitle
	}
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	if dt.OutputPath != "" {
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dt.URL
}
