package playlist

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tubegrab/tubegrab/internal/model"
	"github.com/tubegrab/tubegrab/internal/provider"
)

// M3U rendering constants
const (
	m3uHeader    = "#EXTM3U"
	m3uExtension = ".m3u"

	// titleMatchPrefixLen bounds prefix matching between on-disk stems
	// and expected titles; provider templates can truncate long names.
	titleMatchPrefixLen = 50

	// DefaultPlaylistName names the playlist when no title is known.
	DefaultPlaylistName = "playlist"
)

// Media extensions eligible for playlist membership.
var mediaExts = map[string]bool{
	".mp3": true, ".m4a": true, ".flac": true, ".ogg": true, ".wav": true,
	".mp4": true, ".mkv": true, ".webm": true,
}

// Reconciler keeps a playlist directory's persisted position state and its
// rendered .m3u file consistent with partially-completed, reorderable,
// retryable downloads. One task owns one directory at a time; concurrent
// tasks must target different directories.
type Reconciler struct {
	toParent bool // place the .m3u in the parent of the playlist directory
	logger   *zap.Logger
}

// NewReconciler creates a reconciler. toParent selects .m3u placement.
func NewReconciler(toParent bool, logger *zap.Logger) *Reconciler {
	return &Reconciler{toParent: toParent, logger: logger}
}

// M3UPath returns where the rendered playlist lives for a directory.
func (r *Reconciler) M3UPath(dir, playlistTitle string) string {
	base := strings.TrimSpace(filepath.Base(dir))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = playlistTitle
	}
	if base == "" {
		base = DefaultPlaylistName
	}
	name := provider.SanitizeFileName(base) + m3uExtension
	if r.toParent {
		parent := filepath.Dir(filepath.Clean(dir))
		if parent != "" {
			return filepath.Join(parent, name)
		}
	}
	return filepath.Join(dir, name)
}

// ReconcileBeforeStart repairs the state file against files already on disk
// before a (re)run, so an interrupted previous run still yields a correct
// playlist. Existing media files are matched to expected titles by
// sanitized-stem equality or prefix match and seeded at their position.
func (r *Reconciler) ReconcileBeforeStart(dir, playlistTitle string, expected []model.PlaylistEntry) error {
	state := LoadState(dir)
	if playlistTitle != "" {
		state.PlaylistTitle = playlistTitle
	}
	if len(expected) > state.TotalEntries {
		state.TotalEntries = len(expected)
	}

	byStem := make(map[string]model.PlaylistEntry, len(expected))
	for _, item := range expected {
		stem := strings.ToLower(provider.SanitizeFileName(item.Title))
		if stem != "" {
			byStem[stem] = item
		}
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !mediaExts[ext] {
			continue
		}
		stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		match, ok := byStem[stem]
		if !ok {
			for key, item := range byStem {
				prefix := key
				if len(prefix) > titleMatchPrefixLen {
					prefix = prefix[:titleMatchPrefixLen]
				}
				if strings.HasPrefix(stem, prefix) {
					match, ok = item, true
					break
				}
			}
		}
		if !ok || match.Position < 1 {
			continue
		}
		state.Entries[strconv.Itoa(match.Position)] = Entry{
			ID:    match.ID,
			Title: match.Title,
			Path:  filepath.Join(dir, name),
		}
	}

	if err := SaveState(dir, state); err != nil {
		return err
	}
	return r.writeM3U(dir, state)
}

// UpdateOnItemFinished upserts the state entry for a finished or
// postprocessed item and rewrites the .m3u. Items without a known position
// are stored under an extra sentinel and merged in after positioned ones.
func (r *Reconciler) UpdateOnItemFinished(ev provider.Event) {
	final := ev.Info.Filepath
	if final == "" {
		final = ev.Filename
	}
	if final == "" {
		return
	}
	dir := filepath.Dir(final)

	state := LoadState(dir)
	if ev.Info.PlaylistTitle != "" {
		state.PlaylistTitle = ev.Info.PlaylistTitle
	}
	if ev.Info.NEntries > state.TotalEntries {
		state.TotalEntries = ev.Info.NEntries
	}

	entry := Entry{ID: ev.Info.ID, Title: ev.Info.Title, Path: final}
	if ev.Info.PlaylistIndex > 0 {
		state.Entries[strconv.Itoa(ev.Info.PlaylistIndex)] = entry
	} else {
		key := ev.Info.ID
		if key == "" {
			key = filepath.Base(final)
		}
		state.Entries[ExtraKeyPrefix+key] = entry
	}

	if err := SaveState(dir, state); err != nil {
		r.logger.Warn("failed to persist playlist state", zap.String("dir", dir), zap.Error(err))
		return
	}
	if err := r.writeM3U(dir, state); err != nil {
		r.logger.Warn("failed to rewrite playlist file", zap.String("dir", dir), zap.Error(err))
	}
}

// Finalize rewrites the .m3u from current state. Called at task completion
// so the file exists even if the last provider hook was missed.
func (r *Reconciler) Finalize(dir, playlistTitle string) error {
	state := LoadState(dir)
	if playlistTitle != "" && state.PlaylistTitle == "" {
		state.PlaylistTitle = playlistTitle
		if err := SaveState(dir, state); err != nil {
			r.logger.Warn("failed to persist playlist state", zap.String("dir", dir), zap.Error(err))
		}
	}
	return r.writeM3U(dir, state)
}

// writeM3U renders the playlist from scratch: positioned entries ascending,
// then extras alphabetically, then a fallback pass over media files on disk
// that tracking missed, with no duplicate lines.
func (r *Reconciler) writeM3U(dir string, state State) error {
	m3uPath := r.M3UPath(dir, state.PlaylistTitle)
	m3uDir := filepath.Dir(m3uPath)

	var lines []string
	included := make(map[string]struct{})

	appendPath := func(path string) {
		if path == "" {
			return
		}
		if _, err := os.Stat(path); err != nil {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if _, dup := included[abs]; dup {
			return
		}
		included[abs] = struct{}{}
		rel, err := filepath.Rel(m3uDir, path)
		if err != nil {
			rel = path
		}
		lines = append(lines, filepath.ToSlash(rel))
	}

	var positions []int
	var extraKeys []string
	for key := range state.Entries {
		if pos := positionOf(key); pos > 0 {
			positions = append(positions, pos)
		} else if strings.HasPrefix(key, ExtraKeyPrefix) {
			extraKeys = append(extraKeys, key)
		}
	}
	sort.Ints(positions)
	sort.Slice(extraKeys, func(i, j int) bool {
		a := filepath.Base(state.Entries[extraKeys[i]].Path)
		b := filepath.Base(state.Entries[extraKeys[j]].Path)
		return strings.ToLower(a) < strings.ToLower(b)
	})

	for _, pos := range positions {
		appendPath(state.Entries[strconv.Itoa(pos)].Path)
	}
	for _, key := range extraKeys {
		appendPath(state.Entries[key].Path)
	}

	// Fallback: never omit a real media file, even if tracking missed it.
	if dirEntries, err := os.ReadDir(dir); err == nil {
		var untracked []string
		for _, de := range dirEntries {
			if de.IsDir() {
				continue
			}
			if !mediaExts[strings.ToLower(filepath.Ext(de.Name()))] {
				continue
			}
			path := filepath.Join(dir, de.Name())
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			if _, dup := included[abs]; !dup {
				untracked = append(untracked, path)
			}
		}
		sort.Slice(untracked, func(i, j int) bool {
			return strings.ToLower(filepath.Base(untracked[i])) < strings.ToLower(filepath.Base(untracked[j]))
		})
		for _, path := range untracked {
			appendPath(path)
		}
	}

	var b strings.Builder
	b.WriteString(m3uHeader + "\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	return os.WriteFile(m3uPath, []byte(b.String()), 0644)
}
