package provider

import "strings"

// This file is the only place that inspects provider message text. The
// wording is an external contract owned by yt-dlp; if it changes, only
// these functions need to follow.

// Archive-skip phrases emitted when an item is already in the download
// archive or already present on disk.
var archiveSkipPhrases = []string{
	"has already been recorded in the archive",
	"already been recorded",
	"has already been downloaded",
}

// IsArchiveSkip reports whether an error message means the item was skipped
// as a duplicate rather than genuinely failed.
func IsArchiveSkip(msg string) bool {
	m := strings.ToLower(msg)
	for _, phrase := range archiveSkipPhrases {
		if strings.Contains(m, phrase) {
			return true
		}
	}
	return false
}

// LooksAborted reports whether a message resembles a cancellation. A
// secondary signal next to the abort token and the ErrAborted sentinel; it
// catches runs whose child process was terminated out of band.
func LooksAborted(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "aborted") ||
		strings.Contains(m, "signal: killed") ||
		strings.Contains(m, "context canceled")
}

// FriendlyMessage maps a raw provider error message to actionable text.
func FriendlyMessage(msg string) string {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "http error 403"), strings.Contains(m, "forbidden"):
		return "YouTube is blocking the download (HTTP 403 Forbidden). " +
			"Try using browser cookies or wait a few hours before retrying."
	case strings.Contains(m, "po token"), strings.Contains(m, "gvs po token"):
		return "YouTube's Proof of Origin (PO) token system is blocking access. " +
			"Try using browser cookies from a logged-in session."
	case strings.Contains(m, "no request handlers configured"):
		return "YouTube request handler configuration error. " +
			"Update yt-dlp or use browser cookies."
	case strings.Contains(m, "video unavailable"):
		return "The video is not available (deleted/private/region-locked)."
	case strings.Contains(m, "not available on this app"):
		return "Content not available on this application (geo/licensing)."
	case strings.Contains(m, "unable to download format"):
		return "Could not find a suitable video format to download."
	}
	return "YouTube access error occurred. Try using browser cookies or updating yt-dlp."
}

// FFmpegInstructions returns installation guidance for the given GOOS.
func FFmpegInstructions(goos string) string {
	switch strings.ToLower(goos) {
	case "windows":
		return "FFmpeg Installation for Windows:\n" +
			"1. Download from https://ffmpeg.org/download.html#build-windows\n" +
			"2. Extract (e.g., C:\\ffmpeg) and add bin to PATH\n" +
			"3. Restart terminal and verify with: ffmpeg -version"
	case "darwin":
		return "FFmpeg Installation for macOS:\n" +
			"1. Install Homebrew: https://brew.sh\n" +
			"2. brew install ffmpeg\n" +
			"3. Verify with: ffmpeg -version"
	}
	return "FFmpeg Installation for Linux:\n" +
		"Ubuntu/Debian: sudo apt update && sudo apt install ffmpeg\n" +
		"Fedora: sudo dnf install ffmpeg\n" +
		"Arch: sudo pacman -S ffmpeg\n" +
		"Verify with: ffmpeg -version"
}
