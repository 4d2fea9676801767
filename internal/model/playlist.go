package model

// PlaylistEntry is one item of a pre-flight flat playlist listing.
// Position is the 1-based ordinal within the playlist.
type PlaylistEntry struct {
	Position int    `json:"position"`
	ID       string `json:"id"`
	Title    string `json:"title"`
}

// PlaylistListing is the result of a pre-flight flat listing of a playlist URL.
type PlaylistListing struct {
	Title   string          `json:"title"`
	Entries []PlaylistEntry `json:"entries"`
}

// Snapshot is a derived view of playlist progress. All counts are >= 0 and
// Completed() never exceeds Total once the pre-flight listing succeeded;
// Total stays 0 while it is unknown.
type Snapshot struct {
	Total      int `json:"total"`
	Downloaded int `json:"downloaded"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// Completed returns the number of items no longer pending.
func (s Snapshot) Completed() int {
	return s.Downloaded + s.Failed + s.Skipped
}

// Remaining returns how many items are still pending, or 0 when Total is unknown.
func (s Snapshot) Remaining() int {
	if s.Total == 0 {
		return 0
	}
	if r := s.Total - s.Completed(); r > 0 {
		return r
	}
	return 0
}

// FailedItem records one genuine per-item failure for the outcome report.
type FailedItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

// SkippedItem records one item skipped as already downloaded.
type SkippedItem struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}
