package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/tubegrab/tubegrab/internal/model"
)

// Pre-flight listing constants
const (
	DefaultListTimeout = 60 * time.Second

	DefaultPlaylistTitle = "Unknown Playlist"
	PlaylistTitleSuffix  = " Playlist"
	MinCommonPrefixLen   = 10
)

// FlatLister performs the pre-flight flat listing of a playlist URL:
// ordered positions, IDs, and titles, without downloading anything.
type FlatLister struct {
	timeout time.Duration
}

// NewFlatLister creates a lister with the default timeout.
func NewFlatLister() *FlatLister {
	return &FlatLister{timeout: DefaultListTimeout}
}

// SetTimeout overrides the listing timeout.
func (l *FlatLister) SetTimeout(timeout time.Duration) {
	l.timeout = timeout
}

// List fetches the playlist's flat item listing. Positions are 1-based in
// playlist order.
func (l *FlatLister) List(ctx context.Context, url string) (*model.PlaylistListing, error) {
	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	listing := &model.PlaylistListing{
		Entries: make([]model.PlaylistEntry, 0, len(items)),
	}
	for i, it := range items {
		listing.Entries = append(listing.Entries, model.PlaylistEntry{
			Position: i + 1,
			ID:       it.VideoID,
			Title:    it.Title,
		})
	}
	listing.Title = derivePlaylistTitle(listing.Entries)
	return listing, nil
}

// derivePlaylistTitle names the playlist from its items: a long-enough
// common title prefix, else the first title.
func derivePlaylistTitle(entries []model.PlaylistEntry) string {
	if len(entries) == 0 {
		return DefaultPlaylistTitle
	}
	if len(entries) > 1 {
		prefix := commonPrefix(entries[0].Title, entries[1].Title)
		if len(prefix) > MinCommonPrefixLen {
			return strings.TrimSpace(prefix) + PlaylistTitleSuffix
		}
	}
	return entries[0].Title + PlaylistTitleSuffix
}

// commonPrefix finds the common prefix between two strings.
func commonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}
