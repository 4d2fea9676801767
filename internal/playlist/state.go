package playlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// StateFileName is the dotfile persisted beside the media files. The file
// is not meant for user editing but stays indented JSON so it diffs cleanly
// when debugging.
const StateFileName = ".playlist_state.json"

// ExtraKeyPrefix marks entries whose playlist position was unknown when
// they finished. They render after positioned entries.
const ExtraKeyPrefix = "_extra_"

// Entry is one tracked playlist item.
type Entry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// State maps playlist position to the resolved item. Keys are either a
// string-encoded 1-based position or an ExtraKeyPrefix sentinel.
type State struct {
	PlaylistTitle string           `json:"playlist_title"`
	TotalEntries  int              `json:"total_entries"`
	Entries       map[string]Entry `json:"entries"`
}

// newState returns an empty state.
func newState() State {
	return State{Entries: make(map[string]Entry)}
}

// statePath returns the state file location for a playlist directory.
func statePath(dir string) string {
	return filepath.Join(dir, StateFileName)
}

// LoadState reads the persisted state, returning an empty state when the
// file is missing or unreadable.
func LoadState(dir string) State {
	data, err := os.ReadFile(statePath(dir))
	if err != nil {
		return newState()
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return newState()
	}
	if s.Entries == nil {
		s.Entries = make(map[string]Entry)
	}
	return s
}

// SaveState persists the state as indented JSON.
func SaveState(dir string, s State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(statePath(dir), data, 0644)
}

// positionOf parses a state key as a playlist position, returning 0 for
// extra-sentinel keys.
func positionOf(key string) int {
	pos, err := strconv.Atoi(key)
	if err != nil || pos < 1 {
		return 0
	}
	return pos
}
