package download

import (
	"errors"
	"strings"
	"testing"

	"github.com/tubegrab/tubegrab/internal/model"
	"github.com/tubegrab/tubegrab/internal/provider"
)

func audioInput() BuildInput {
	return BuildInput{
		Mode:            model.ModeAudio,
		OutputDir:       "/out",
		Options:         model.DefaultOptions(),
		FFmpegAvailable: true,
	}
}

func TestBuildConfigAudioWithoutFFmpeg(t *testing.T) {
	in := audioInput()
	in.FFmpegAvailable = false

	_, err := BuildConfig(in)
	if err == nil {
		t.Fatal("Expected a capability error")
	}

	var capErr *provider.CapabilityError
	if !errors.As(err, &capErr) {
		t.Fatalf("Expected CapabilityError, got %T: %v", err, err)
	}
	if capErr.Capability != "ffmpeg" {
		t.Errorf("Capability = %q, want ffmpeg", capErr.Capability)
	}
	if capErr.Remediation == "" {
		t.Error("Expected remediation instructions")
	}
}

func TestBuildConfigAudioPipelineOrder(t *testing.T) {
	cfg, err := BuildConfig(audioInput())
	if err != nil {
		t.Fatalf("BuildConfig failed: %v", err)
	}

	var keys []string
	for _, pp := range cfg.Postprocessors {
		keys = append(keys, pp.Key)
	}
	want := []string{
		provider.PPExtractAudio,
		provider.PPConvertThumbnails,
		provider.PPEmbedThumbnail,
		provider.PPEmbedMetadata,
	}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("Pipeline = %v, want %v", keys, want)
	}

	if !cfg.WriteThumbnail {
		t.Error("Thumbnail embedding requires writing the thumbnail first")
	}
	if cfg.Format != AudioFormatSelection {
		t.Errorf("Format = %q, want %q", cfg.Format, AudioFormatSelection)
	}
}

func TestBuildConfigAudioWithoutEmbeds(t *testing.T) {
	in := audioInput()
	in.Options.EmbedThumbnail = false
	in.Options.EmbedMetadata = false

	cfg, err := BuildConfig(in)
	if err != nil {
		t.Fatalf("BuildConfig failed: %v", err)
	}
	if len(cfg.Postprocessors) != 1 || cfg.Postprocessors[0].Key != provider.PPExtractAudio {
		t.Errorf("Expected extraction only, got %v", cfg.Postprocessors)
	}
	if cfg.WriteThumbnail {
		t.Error("No thumbnail should be written when embedding is off")
	}
}

func TestBuildConfigVideoDegradesWithoutFFmpeg(t *testing.T) {
	in := audioInput()
	in.Mode = model.ModeVideo
	in.FFmpegAvailable = false

	cfg, err := BuildConfig(in)
	if err != nil {
		t.Fatalf("Video without ffmpeg must not fail: %v", err)
	}
	if len(cfg.Postprocessors) != 0 {
		t.Errorf("Expected no postprocessors, got %v", cfg.Postprocessors)
	}
	if cfg.Format != VideoFormatSelection {
		t.Errorf("Format = %q, want %q", cfg.Format, VideoFormatSelection)
	}
}

func TestBuildConfigPlaylistFlags(t *testing.T) {
	in := audioInput()
	in.Playlist = true
	in.Options.PlaylistAlbumOverride = true

	cfg, err := BuildConfig(in)
	if err != nil {
		t.Fatalf("BuildConfig failed: %v", err)
	}
	if !cfg.YesPlaylist || cfg.NoPlaylist {
		t.Error("Playlist run must select yes-playlist")
	}
	if !cfg.IgnoreErrors {
		t.Error("Playlist run must continue past item failures")
	}
	if cfg.SleepInterval != PlaylistSleepIntervalSec {
		t.Errorf("SleepInterval = %d, want %d", cfg.SleepInterval, PlaylistSleepIntervalSec)
	}
	if !cfg.AlbumFromPlaylist {
		t.Error("Album override not propagated")
	}
}

func TestBuildConfigSingleVideoFlags(t *testing.T) {
	cfg, err := BuildConfig(audioInput())
	if err != nil {
		t.Fatalf("BuildConfig failed: %v", err)
	}
	if cfg.YesPlaylist || !cfg.NoPlaylist {
		t.Error("Single video must select no-playlist")
	}
	if cfg.IgnoreErrors {
		t.Error("Single video must fail fast")
	}
}

func TestBuildConfigOutputTemplate(t *testing.T) {
	in := audioInput()
	cfg, err := BuildConfig(in)
	if err != nil {
		t.Fatalf("BuildConfig failed: %v", err)
	}
	if !strings.HasSuffix(cfg.OutputTemplate, DefaultOutputTemplate) {
		t.Errorf("OutputTemplate = %q, expected suffix %q", cfg.OutputTemplate, DefaultOutputTemplate)
	}
	if !strings.HasSuffix(cfg.DownloadArchive, ArchiveFileName) {
		t.Errorf("DownloadArchive = %q, expected suffix %q", cfg.DownloadArchive, ArchiveFileName)
	}

	in.Options.IncludeAuthor = true
	cfg, err = BuildConfig(in)
	if err != nil {
		t.Fatalf("BuildConfig failed: %v", err)
	}
	if !strings.HasSuffix(cfg.OutputTemplate, AuthoredOutputTemplate) {
		t.Errorf("OutputTemplate = %q, expected authored form", cfg.OutputTemplate)
	}
}

func TestBuildConfigUnknownMode(t *testing.T) {
	in := audioInput()
	in.Mode = model.Mode("podcast")
	if _, err := BuildConfig(in); err == nil {
		t.Error("Expected an error for an unknown mode")
	}
}

func TestBuildConfigDeterministic(t *testing.T) {
	a, err := BuildConfig(audioInput())
	if err != nil {
		t.Fatalf("BuildConfig failed: %v", err)
	}
	b, err := BuildConfig(audioInput())
	if err != nil {
		t.Fatalf("BuildConfig failed: %v", err)
	}
	if a.Format != b.Format || a.OutputTemplate != b.OutputTemplate ||
		len(a.Postprocessors) != len(b.Postprocessors) {
		t.Error("Same input must produce the same configuration")
	}
}
