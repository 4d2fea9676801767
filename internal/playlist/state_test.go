package playlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := newState()
	s.PlaylistTitle = "Mix"
	s.TotalEntries = 3
	s.Entries["1"] = Entry{ID: "a", Title: "First", Path: "/out/First.mp3"}
	s.Entries[ExtraKeyPrefix+"x"] = Entry{ID: "x", Title: "Bonus", Path: "/out/Bonus.mp3"}

	if err := SaveState(dir, s); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	loaded := LoadState(dir)
	if loaded.PlaylistTitle != "Mix" || loaded.TotalEntries != 3 {
		t.Errorf("Loaded header = %q/%d", loaded.PlaylistTitle, loaded.TotalEntries)
	}
	if len(loaded.Entries) != 2 {
		t.Fatalf("Loaded %d entries, want 2", len(loaded.Entries))
	}
	if loaded.Entries["1"].Title != "First" {
		t.Errorf("Entry 1 = %+v", loaded.Entries["1"])
	}
	if loaded.Entries[ExtraKeyPrefix+"x"].Title != "Bonus" {
		t.Errorf("Extra entry = %+v", loaded.Entries[ExtraKeyPrefix+"x"])
	}
}

func TestLoadStateMissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()

	s := LoadState(dir)
	if len(s.Entries) != 0 {
		t.Errorf("Missing file must yield empty state, got %d entries", len(s.Entries))
	}
	if s.Entries == nil {
		t.Fatal("Entries map must never be nil")
	}

	if err := os.WriteFile(filepath.Join(dir, StateFileName), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	s = LoadState(dir)
	if len(s.Entries) != 0 || s.Entries == nil {
		t.Error("Corrupt file must yield a fresh empty state")
	}
}

func TestPositionOf(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{"1", 1},
		{"42", 42},
		{"0", 0},
		{"-3", 0},
		{ExtraKeyPrefix + "abc", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := positionOf(tt.key); got != tt.want {
			t.Errorf("positionOf(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}
