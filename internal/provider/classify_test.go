package provider

import (
	"strings"
	"testing"
)

func TestIsArchiveSkip(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"abc123: has already been recorded in the archive", true},
		{"[download] xyz has already been downloaded", true},
		{"Has Already Been Recorded", true},
		{"HTTP Error 403: Forbidden", false},
		{"Video unavailable", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsArchiveSkip(tt.msg); got != tt.want {
			t.Errorf("IsArchiveSkip(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestLooksAborted(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"download aborted by user", true},
		{"signal: killed", true},
		{"context canceled", true},
		{"HTTP Error 403", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := LooksAborted(tt.msg); got != tt.want {
			t.Errorf("LooksAborted(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestFriendlyMessage(t *testing.T) {
	tests := []struct {
		msg      string
		wantPart string
	}{
		{"HTTP Error 403: Forbidden", "403"},
		{"requires a GVS PO Token", "PO"},
		{"Video unavailable", "not available"},
		{"Requested format is not available. unable to download format", "format"},
		{"something entirely novel", "access error"},
	}

	for _, tt := range tests {
		got := FriendlyMessage(tt.msg)
		if !strings.Contains(got, tt.wantPart) {
			t.Errorf("FriendlyMessage(%q) = %q, expected to contain %q", tt.msg, got, tt.wantPart)
		}
	}
}

func TestFFmpegInstructionsPerOS(t *testing.T) {
	for _, goos := range []string{"windows", "darwin", "linux", "freebsd"} {
		text := FFmpegInstructions(goos)
		if text == "" {
			t.Errorf("FFmpegInstructions(%q) is empty", goos)
		}
		if !strings.Contains(strings.ToLower(text), "ffmpeg") {
			t.Errorf("FFmpegInstructions(%q) does not mention ffmpeg", goos)
		}
	}

	if FFmpegInstructions("windows") == FFmpegInstructions("darwin") {
		t.Error("Expected OS-specific instructions to differ")
	}
}
