package download

import (
	"strings"
	"testing"

	"github.com/tubegrab/tubegrab/internal/provider"
)

func downloadingEvent(filename string, percent float64) provider.Event {
	return provider.Event{
		Status:   provider.StatusDownloading,
		Filename: filename,
		Percent:  percent,
	}
}

func TestTrackerProgressThrottling(t *testing.T) {
	var lines []string
	tr := NewTracker("https://example.com/v", 0, func(line string) {
		lines = append(lines, line)
	})

	// First event for a file emits a start line plus a progress line.
	tr.OnEvent(downloadingEvent("song.mp4", 1.0))
	base := len(lines)

	// Sub-threshold ticks for the same file must stay silent.
	tr.OnEvent(downloadingEvent("song.mp4", 2.0))
	tr.OnEvent(downloadingEvent("song.mp4", 4.5))
	if len(lines) != base {
		t.Errorf("Sub-threshold ticks logged %d extra lines", len(lines)-base)
	}

	// Crossing the threshold emits exactly one more line.
	tr.OnEvent(downloadingEvent("song.mp4", 6.5))
	if len(lines) != base+1 {
		t.Errorf("Threshold crossing logged %d lines, want 1", len(lines)-base)
	}

	// A new file resets throttling.
	tr.OnEvent(downloadingEvent("next.mp4", 0.5))
	if len(lines) <= base+1 {
		t.Error("New file should emit fresh lines")
	}
}

func TestTrackerSkipVersusFail(t *testing.T) {
	tr := NewTracker("https://example.com/list", 3, nil)

	tr.OnEvent(provider.Event{
		Status: provider.StatusError,
		Err:    "abc: has already been recorded in the archive",
	})
	tr.OnEvent(provider.Event{
		Status: provider.StatusError,
		Err:    "Video unavailable",
		Info:   provider.Info{Title: "Gone"},
	})

	s := tr.Summary()
	if s.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", s.Skipped)
	}
	if s.Failed != 1 {
		t.Errorf("Failed = %d, want 1", s.Failed)
	}

	failed := tr.FailedItems()
	if len(failed) != 1 || failed[0].Title != "Gone" {
		t.Errorf("FailedItems = %+v", failed)
	}
	skipped := tr.SkippedItems()
	if len(skipped) != 1 || skipped[0].Reason != "already downloaded" {
		t.Errorf("SkippedItems = %+v", skipped)
	}
}

func TestTrackerFinishedDeduplication(t *testing.T) {
	tr := NewTracker("u", 5, nil)

	ev := provider.Event{
		Status: provider.StatusFinished,
		Info:   provider.Info{ID: "vid1", Filepath: "/out/a.mp3"},
	}
	tr.OnEvent(ev)
	tr.OnEvent(ev) // duplicate hook invocation

	if got := tr.Summary().Downloaded; got != 1 {
		t.Errorf("Downloaded = %d, want 1 after duplicate finish", got)
	}

	tr.OnEvent(provider.Event{
		Status: provider.StatusFinished,
		Info:   provider.Info{ID: "vid2", Filepath: "/out/b.mp3"},
	})
	if got := tr.Summary().Downloaded; got != 2 {
		t.Errorf("Downloaded = %d, want 2", got)
	}
}

func TestTrackerActivePaths(t *testing.T) {
	tr := NewTracker("u", 0, nil)

	tr.OnEvent(downloadingEvent("/out/a.mp4.part", 10))
	tr.OnEvent(downloadingEvent("/out/b.mp4.part", 20))

	if paths := tr.ActivePaths(); len(paths) != 2 {
		t.Fatalf("ActivePaths = %v, want 2 entries", paths)
	}

	tr.OnEvent(provider.Event{
		Status:   provider.StatusFinished,
		Filename: "/out/a.mp4.part",
		Info:     provider.Info{ID: "a", Filepath: "/out/a.mp4"},
	})

	paths := tr.ActivePaths()
	if len(paths) != 1 || paths[0] != "/out/b.mp4.part" {
		t.Errorf("ActivePaths after finish = %v", paths)
	}
}

func TestTrackerTotalsFromEvents(t *testing.T) {
	tr := NewTracker("u", 0, nil)

	tr.OnEvent(provider.Event{
		Status: provider.StatusDownloading,
		Info:   provider.Info{NEntries: 12, PlaylistTitle: "Mix"},
	})

	if got := tr.Summary().Total; got != 12 {
		t.Errorf("Total = %d, want 12 from event", got)
	}
	if tr.PlaylistTitle() != "Mix" {
		t.Errorf("PlaylistTitle = %q", tr.PlaylistTitle())
	}

	// SetTotal never shrinks the count.
	tr.SetTotal(5)
	if got := tr.Summary().Total; got != 12 {
		t.Errorf("Total = %d after smaller SetTotal, want 12", got)
	}
}

func TestTrackerErrorSummary(t *testing.T) {
	tr := NewTracker("u", 4, nil)
	if tr.ErrorSummary() != "" {
		t.Errorf("Clean tracker summary = %q, want empty", tr.ErrorSummary())
	}

	tr.OnEvent(provider.Event{Status: provider.StatusError, Err: "Video unavailable"})
	tr.OnEvent(provider.Event{Status: provider.StatusError, Err: "x has already been downloaded"})

	s := tr.ErrorSummary()
	if !strings.Contains(s, "1 video(s) failed") || !strings.Contains(s, "1 video(s) skipped") {
		t.Errorf("ErrorSummary = %q", s)
	}
}
