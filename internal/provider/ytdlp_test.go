package provider

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestDecodeWireEvent(t *testing.T) {
	t.Run("downloading with nulls", func(t *testing.T) {
		payload := `{"status":"downloading","downloaded":512,"total":null,` +
			`"total_estimate":1024,"speed":256.5,"eta":null,"filename":"a.mp4",` +
			`"info":{"id":"x1","title":"T","playlist_index":null,"n_entries":null,"playlist_title":null}}`

		ev, ok := decodeWireEvent(payload)
		if !ok {
			t.Fatal("Expected payload to decode")
		}
		if ev.Status != StatusDownloading {
			t.Errorf("Status = %s, want downloading", ev.Status)
		}
		if ev.Total != 1024 {
			t.Errorf("Total = %d, want estimate fallback 1024", ev.Total)
		}
		if ev.Percent != 50 {
			t.Errorf("Percent = %.1f, want 50", ev.Percent)
		}
		if ev.ETASec != -1 {
			t.Errorf("ETASec = %d, want -1 for null eta", ev.ETASec)
		}
		if ev.Info.PlaylistIndex != 0 {
			t.Errorf("PlaylistIndex = %d, want 0 for null", ev.Info.PlaylistIndex)
		}
	})

	t.Run("finished with final path", func(t *testing.T) {
		payload := `{"status":"finished","info":{"id":"x2","title":"Song",` +
			`"playlist_index":3,"n_entries":10,"playlist_title":"Mix","filepath":"/out/Song.mp3"}}`

		ev, ok := decodeWireEvent(payload)
		if !ok {
			t.Fatal("Expected payload to decode")
		}
		if ev.Status != StatusFinished {
			t.Errorf("Status = %s, want finished", ev.Status)
		}
		if ev.Info.Filepath != "/out/Song.mp3" {
			t.Errorf("Filepath = %q", ev.Info.Filepath)
		}
		if ev.Info.PlaylistIndex != 3 || ev.Info.NEntries != 10 {
			t.Errorf("Position = %d/%d, want 3/10", ev.Info.PlaylistIndex, ev.Info.NEntries)
		}
	})

	t.Run("garbage rejected", func(t *testing.T) {
		if _, ok := decodeWireEvent("not json at all"); ok {
			t.Error("Expected garbage to be rejected")
		}
		if _, ok := decodeWireEvent(`{"status":"levitating"}`); ok {
			t.Error("Expected unknown status to be rejected")
		}
	})
}

func TestParseStdoutLine(t *testing.T) {
	y := NewYTDLP("", "", zap.NewNop())

	t.Run("tagged event line", func(t *testing.T) {
		var got []Event
		line := `download:` + eventTag + `{"status":"downloading","downloaded":1,"total":2,"filename":"f","info":{}}`
		y.parseStdoutLine(line, func(ev Event) { got = append(got, ev) })
		if len(got) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(got))
		}
		if got[0].Status != StatusDownloading {
			t.Errorf("Status = %s", got[0].Status)
		}
	})

	t.Run("archive skip becomes error event", func(t *testing.T) {
		var got []Event
		line := "[download] abc123: has already been recorded in the archive"
		y.parseStdoutLine(line, func(ev Event) { got = append(got, ev) })
		if len(got) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(got))
		}
		if got[0].Status != StatusError {
			t.Errorf("Status = %s, want error", got[0].Status)
		}
		if !IsArchiveSkip(got[0].Err) {
			t.Errorf("Err = %q, expected archive-skip classification", got[0].Err)
		}
	})

	t.Run("ordinary output ignored", func(t *testing.T) {
		count := 0
		y.parseStdoutLine("[youtube] Extracting URL", func(Event) { count++ })
		y.parseStdoutLine("[download] Destination: x.mp4", func(Event) { count++ })
		if count != 0 {
			t.Errorf("Expected no events, got %d", count)
		}
	})
}

func TestBuildArgs(t *testing.T) {
	y := NewYTDLP("yt-dlp", "/usr/bin/ffmpeg", zap.NewNop())

	cfg := Config{
		Format:          "bestaudio/best",
		OutputTemplate:  "/out/%(title)s.%(ext)s",
		DownloadArchive: "/out/archive.txt",
		YesPlaylist:     true,
		IgnoreErrors:    true,
		SleepInterval:   5,
		Retries:         5,
		CookieFile:      "/tmp/cookies.txt",
		WriteThumbnail:  true,
		Postprocessors: []Postprocessor{
			{Key: PPExtractAudio, Codec: "mp3", Quality: "0"},
			{Key: PPConvertThumbnails, Format: "jpg"},
			{Key: PPEmbedThumbnail},
			{Key: PPEmbedMetadata},
		},
		AlbumFromPlaylist: true,
	}

	args := strings.Join(y.buildArgs(cfg), " ")

	mustContain := []string{
		"--newline",
		"-f bestaudio/best",
		"-o /out/%(title)s.%(ext)s",
		"-x --audio-format mp3 --audio-quality 0",
		"--convert-thumbnails jpg",
		"--embed-thumbnail",
		"--embed-metadata",
		"--download-archive /out/archive.txt",
		"--yes-playlist",
		"--ignore-errors",
		"--sleep-interval 5",
		"--retries 5",
		"--cookies /tmp/cookies.txt",
		"--write-thumbnail",
		"--parse-metadata %(playlist_title)s:%(meta_album)s",
		"--ffmpeg-location /usr/bin/ffmpeg",
	}
	for _, part := range mustContain {
		if !strings.Contains(args, part) {
			t.Errorf("Arguments missing %q\nargs: %s", part, args)
		}
	}

	if strings.Contains(args, "--no-playlist") {
		t.Error("Playlist config must not carry --no-playlist")
	}
}

func TestBuildArgsSingleVideo(t *testing.T) {
	y := NewYTDLP("yt-dlp", "", zap.NewNop())

	cfg := Config{
		Format:         "bestvideo+bestaudio/best",
		OutputTemplate: "/out/%(title)s.%(ext)s",
		NoPlaylist:     true,
	}

	args := strings.Join(y.buildArgs(cfg), " ")
	if !strings.Contains(args, "--no-playlist") {
		t.Error("Single-video config must carry --no-playlist")
	}
	if strings.Contains(args, "--ffmpeg-location") {
		t.Error("No ffmpeg location flag expected when ffmpeg is absent")
	}
	if strings.Contains(args, "--ignore-errors") {
		t.Error("Single video must fail fast, not ignore errors")
	}
}
