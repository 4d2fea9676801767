package download

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/tubegrab/tubegrab/internal/model"
	"github.com/tubegrab/tubegrab/internal/provider"
)

// Format selection and pipeline constants. Audio prefers containers needing
// the least re-encoding; mp3 at quality 0 matches what the embed pipeline
// expects downstream.
const (
	AudioFormatSelection = "bestaudio/best"
	VideoFormatSelection = "bestvideo+bestaudio/best"

	AudioCodec   = "mp3"
	AudioQuality = "0"
	ThumbFormat  = "jpg"

	DefaultOutputTemplate    = "%(title)s.%(ext)s"
	AuthoredOutputTemplate   = "%(uploader)s - %(title)s.%(ext)s"
	PlaylistSleepIntervalSec = 5
	DefaultRetries           = 5

	// ArchiveFileName is the per-directory record of already-downloaded
	// item IDs, one per line.
	ArchiveFileName = "archive.txt"
)

// BuildInput is everything the option builder needs. FFmpegAvailable is the
// process-wide capability flag probed once at startup.
type BuildInput struct {
	Mode            model.Mode
	Playlist        bool
	OutputDir       string
	Options         model.Options
	CookieFile      string
	FFmpegAvailable bool
}

// BuildConfig maps a task's declared intent to a provider configuration.
// Pure: no I/O, deterministic given its inputs.
//
// Audio mode requires ffmpeg and fails fast with a capability error before
// any provider call; video mode degrades to download-only postprocessing.
func BuildConfig(in BuildInput) (provider.Config, error) {
	if in.Mode == model.ModeAudio && !in.FFmpegAvailable {
		return provider.Config{}, &provider.CapabilityError{
			Capability:  "ffmpeg",
			Remediation: provider.FFmpegInstructions(runtime.GOOS),
		}
	}

	template := DefaultOutputTemplate
	if in.Options.IncludeAuthor {
		template = AuthoredOutputTemplate
	}

	cfg := provider.Config{
		OutputTemplate:   filepath.Join(in.OutputDir, template),
		DownloadArchive:  filepath.Join(in.OutputDir, ArchiveFileName),
		Retries:          DefaultRetries,
		CookieFile:       in.CookieFile,
		WriteInfoJSON:    in.Options.WriteInfoJSON,
		WriteDescription: in.Options.WriteDescription,
		WriteSubtitles:   in.Options.WriteSubtitles,
	}

	switch in.Mode {
	case model.ModeAudio:
		cfg.Format = AudioFormatSelection
		cfg.Postprocessors = append(cfg.Postprocessors, provider.Postprocessor{
			Key:     provider.PPExtractAudio,
			Codec:   AudioCodec,
			Quality: AudioQuality,
		})
		if in.Options.EmbedThumbnail {
			// Embedding depends on a prior convert-to-jpg step.
			cfg.WriteThumbnail = true
			cfg.Postprocessors = append(cfg.Postprocessors,
				provider.Postprocessor{Key: provider.PPConvertThumbnails, Format: ThumbFormat},
				provider.Postprocessor{Key: provider.PPEmbedThumbnail},
			)
		}
		if in.Options.EmbedMetadata {
			// Metadata embedding runs last so earlier steps cannot strip it.
			cfg.Postprocessors = append(cfg.Postprocessors,
				provider.Postprocessor{Key: provider.PPEmbedMetadata})
		}
	case model.ModeVideo:
		cfg.Format = VideoFormatSelection
		if in.Options.EmbedMetadata && in.FFmpegAvailable {
			cfg.Postprocessors = append(cfg.Postprocessors,
				provider.Postprocessor{Key: provider.PPEmbedMetadata})
		}
	default:
		return provider.Config{}, fmt.Errorf("unknown download mode %q", in.Mode)
	}

	if in.Playlist {
		cfg.YesPlaylist = true
		cfg.IgnoreErrors = true
		cfg.SleepInterval = PlaylistSleepIntervalSec
		cfg.AlbumFromPlaylist = in.Options.PlaylistAlbumOverride
	} else {
		cfg.NoPlaylist = true
	}

	if err := cfg.Validate(); err != nil {
		return provider.Config{}, err
	}
	return cfg, nil
}
