package provider

import (
	"fmt"
	"strings"
)

// Postprocessor keys, in the only order the pipeline supports: audio
// extraction first, thumbnail conversion before embedding, metadata last so
// earlier steps cannot strip it.
const (
	PPExtractAudio      = "ExtractAudio"
	PPConvertThumbnails = "ConvertThumbnails"
	PPEmbedThumbnail    = "EmbedThumbnail"
	PPEmbedMetadata     = "Metadata"
)

// Postprocessor is one step of the post-download pipeline.
type Postprocessor struct {
	Key     string
	Codec   string // ExtractAudio: target codec (mp3)
	Quality string // ExtractAudio: 0 = best
	Format  string // ConvertThumbnails: target image format (jpg)
}

// Config is the typed provider configuration assembled by the option
// builder. It carries no behavior; the yt-dlp implementation translates it
// to command-line arguments.
type Config struct {
	Format          string // format-selection expression
	OutputTemplate  string // absolute output path template
	Postprocessors  []Postprocessor
	DownloadArchive string // path to the archive record, empty = disabled

	// Playlist behavior. IgnoreErrors keeps a playlist going past one
	// item's failure; single items fail the whole run instead.
	YesPlaylist   bool
	NoPlaylist    bool
	IgnoreErrors  bool
	SleepInterval int

	Retries    int
	CookieFile string

	// Sidecar toggles
	WriteInfoJSON    bool
	WriteDescription bool
	WriteSubtitles   bool
	WriteThumbnail   bool

	// AlbumFromPlaylist sets the album tag from the playlist title.
	AlbumFromPlaylist bool
}

// Validate checks the invariants the builder must have honored.
func (c Config) Validate() error {
	if c.Format == "" {
		return fmt.Errorf("provider config: format selection is empty")
	}
	if c.OutputTemplate == "" {
		return fmt.Errorf("provider config: output template is empty")
	}
	if c.YesPlaylist && c.NoPlaylist {
		return fmt.Errorf("provider config: playlist mode is ambiguous")
	}

	order := map[string]int{
		PPExtractAudio:      0,
		PPConvertThumbnails: 1,
		PPEmbedThumbnail:    2,
		PPEmbedMetadata:     3,
	}
	last := -1
	for _, pp := range c.Postprocessors {
		rank, ok := order[pp.Key]
		if !ok {
			return fmt.Errorf("provider config: unknown postprocessor %q", pp.Key)
		}
		if rank <= last {
			return fmt.Errorf("provider config: postprocessor %q out of order", pp.Key)
		}
		last = rank
	}
	return nil
}

// HasPostprocessor reports whether the pipeline contains the given key.
func (c Config) HasPostprocessor(key string) bool {
	for _, pp := range c.Postprocessors {
		if pp.Key == key {
			return true
		}
	}
	return false
}

// SanitizeFileName replaces filesystem-illegal characters with underscores.
// Applied to every user-visible name that ends up in a path or template.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
}
