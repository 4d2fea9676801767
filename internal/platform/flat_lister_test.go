package platform

import (
	"testing"

	"github.com/tubegrab/tubegrab/internal/model"
)

func entries(titles ...string) []model.PlaylistEntry {
	out := make([]model.PlaylistEntry, 0, len(titles))
	for i, title := range titles {
		out = append(out, model.PlaylistEntry{Position: i + 1, Title: title})
	}
	return out
}

func TestDerivePlaylistTitle(t *testing.T) {
	tests := []struct {
		name    string
		entries []model.PlaylistEntry
		want    string
	}{
		{
			name:    "empty listing",
			entries: nil,
			want:    DefaultPlaylistTitle,
		},
		{
			name:    "single entry uses its title",
			entries: entries("Morning Jazz Mix"),
			want:    "Morning Jazz Mix Playlist",
		},
		{
			name:    "long common prefix wins",
			entries: entries("Summer Sessions - Part 1", "Summer Sessions - Part 2", "Unrelated"),
			want:    "Summer Sessions - Part Playlist",
		},
		{
			name:    "short common prefix falls back to first title",
			entries: entries("Alpha Track", "Algorithm Talk"),
			want:    "Alpha Track Playlist",
		},
		{
			name:    "prefix is trimmed before suffixing",
			entries: entries("Deep Focus Beats A", "Deep Focus Beats B"),
			want:    "Deep Focus Beats Playlist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := derivePlaylistTitle(tt.entries); got != tt.want {
				t.Errorf("derivePlaylistTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   string
	}{
		{"abcdef", "abcxyz", "abc"},
		{"same", "same", "same"},
		{"short", "shorter", "short"},
		{"one", "two", ""},
		{"", "anything", ""},
	}

	for _, tt := range tests {
		if got := commonPrefix(tt.s1, tt.s2); got != tt.want {
			t.Errorf("commonPrefix(%q, %q) = %q, want %q", tt.s1, tt.s2, got, tt.want)
		}
	}
}
