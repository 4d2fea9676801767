package platform

import "testing"

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/playlist?list=PLabc123", true},
		{"https://www.youtube.com/watch?v=abc&list=PLxyz", true},
		{"https://music.youtube.com/playlist?list=OLAK5uy_k", true},
		{"https://www.youtube.com/watch?v=abc", false},
		{"https://youtu.be/abc123", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsPlaylistURL(tt.url); got != tt.want {
			t.Errorf("IsPlaylistURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/playlist?list=PLabc123", "PLabc123"},
		{"https://www.youtube.com/watch?v=abc&list=PLxyz&index=3", "PLxyz"},
		{"https://www.youtube.com/watch?v=abc", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractPlaylistID(tt.url); got != tt.want {
			t.Errorf("ExtractPlaylistID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
