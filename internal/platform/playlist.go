package platform

import (
	"regexp"
	"strings"
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// Playlist URL shapes accepted as "this is a playlist".
var playlistURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]list=([^&]+)`),
	regexp.MustCompile(`playlist\?list=([^&]+)`),
	regexp.MustCompile(`watch\?v=[^&]+&list=([^&]+)`),
}

// IsPlaylistURL detects a playlist from URL shape alone, with no network
// round trip.
func IsPlaylistURL(url string) bool {
	for _, p := range playlistURLPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return strings.Contains(url, "youtube.com/playlist") ||
		strings.Contains(url, "youtube.com/watch?list=")
}

// ExtractPlaylistID extracts the playlist ID from various URL formats,
// returning "" when the URL carries none.
func ExtractPlaylistID(url string) string {
	if !strings.Contains(url, PlaylistParam) {
		return ""
	}
	parts := strings.Split(url, PlaylistParam)
	if len(parts) < 2 {
		return ""
	}
	id := parts[1]
	if strings.Contains(id, ParamSeparator) {
		id = strings.Split(id, ParamSeparator)[0]
	}
	return id
}
