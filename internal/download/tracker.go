package download

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tubegrab/tubegrab/internal/model"
	"github.com/tubegrab/tubegrab/internal/provider"
)

// Progress logging constants
const (
	// ProgressLogStep is the minimum percent advance between re-emitted
	// progress lines; keeps slow shells from drowning in byte ticks.
	ProgressLogStep = 5.0

	bytesPerMB = 1024 * 1024
)

// Tracker consumes the provider event stream for one task invocation. It
// maintains playlist outcome counts, classifies errors into failed vs
// skipped, throttles human-readable progress lines, and remembers which
// files were mid-download for the cleanup pass.
type Tracker struct {
	mu sync.Mutex

	url   string
	onLog func(string) // throttled human-readable lines

	total      int
	downloaded int
	failed     int
	skipped    int

	failedItems  []model.FailedItem
	skippedItems []model.SkippedItem

	lastLoggedPercent  float64
	lastLoggedFilename string
	startedFiles       map[string]bool
	finishedItems      map[string]bool
	activeFiles        map[string]struct{}

	playlistTitle string
	currentTitle  string
}

// NewTracker creates a tracker for one invocation. total may be 0 until a
// pre-flight listing supplies it.
func NewTracker(url string, total int, onLog func(string)) *Tracker {
	if onLog == nil {
		onLog = func(string) {}
	}
	return &Tracker{
		url:           url,
		total:         total,
		onLog:         onLog,
		startedFiles:  make(map[string]bool),
		finishedItems: make(map[string]bool),
		activeFiles:   make(map[string]struct{}),
	}
}

// OnEvent processes one provider event. Called synchronously and
// sequentially on the task's worker, in emission order.
func (t *Tracker) OnEvent(ev provider.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Status {
	case provider.StatusDownloading:
		t.onDownloading(ev)
	case provider.StatusFinished:
		t.onFinished(ev)
	case provider.StatusPostprocessor:
		if ev.Info.Filepath != "" {
			delete(t.activeFiles, ev.Info.Filepath)
		}
	case provider.StatusError:
		t.onError(ev)
	}
}

func (t *Tracker) onDownloading(ev provider.Event) {
	if ev.Info.Title != "" {
		t.currentTitle = ev.Info.Title
	}
	if ev.Info.PlaylistTitle != "" {
		t.playlistTitle = ev.Info.PlaylistTitle
	}
	if ev.Info.NEntries > t.total {
		t.total = ev.Info.NEntries
	}
	if ev.Filename != "" {
		t.activeFiles[ev.Filename] = struct{}{}
	}

	name := stemOf(ev.Filename)

	// One start line per file, with playlist position when known.
	if name != "" && !t.startedFiles[name] {
		t.startedFiles[name] = true
		title := ev.Info.Title
		if title == "" {
			title = name
		}
		if ev.Info.PlaylistIndex > 0 && t.total > 0 {
			t.onLog(fmt.Sprintf("Starting: [%d/%d] %s", ev.Info.PlaylistIndex, t.total, title))
		} else {
			t.onLog(fmt.Sprintf("Starting: %s", title))
		}
	}

	// Throttled progress line.
	if ev.Percent-t.lastLoggedPercent >= ProgressLogStep || name != t.lastLoggedFilename {
		t.onLog(progressLine(name, ev))
		t.lastLoggedPercent = ev.Percent
		t.lastLoggedFilename = name
	}
}

func (t *Tracker) onFinished(ev provider.Event) {
	key := ev.Info.ID
	if key == "" {
		key = ev.Info.Filepath
	}
	if key == "" {
		key = ev.Filename
	}
	if key != "" && !t.finishedItems[key] {
		t.finishedItems[key] = true
		t.downloaded++
	}
	if ev.Info.Filepath != "" {
		delete(t.activeFiles, ev.Info.Filepath)
	}
	delete(t.activeFiles, ev.Filename)

	title := ev.Info.Title
	if title == "" {
		title = stemOf(ev.Info.Filepath)
	}
	if ev.Info.PlaylistIndex > 0 && t.total > 0 {
		t.onLog(fmt.Sprintf("Finished item: [%d/%d] %s", ev.Info.PlaylistIndex, t.total, title))
	} else if title != "" {
		t.onLog(fmt.Sprintf("Finished: %s", title))
	}
	t.lastLoggedPercent = 0
	t.lastLoggedFilename = ""
}

func (t *Tracker) onError(ev provider.Event) {
	title := ev.Info.Title
	if title == "" {
		title = t.currentTitle
	}

	if provider.IsArchiveSkip(ev.Err) {
		t.skipped++
		t.skippedItems = append(t.skippedItems, model.SkippedItem{
			Title:  title,
			Reason: "already downloaded",
		})
		return
	}

	t.failed++
	t.failedItems = append(t.failedItems, model.FailedItem{
		Title: title,
		URL:   t.url,
		Error: ev.Err,
	})
	t.onLog(fmt.Sprintf("Error: %s", ev.Err))
}

// SetTotal records the pre-flight item count when it arrives after
// construction.
func (t *Tracker) SetTotal(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if total > t.total {
		t.total = total
	}
}

// Summary returns current playlist progress counts.
func (t *Tracker) Summary() model.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return model.Snapshot{
		Total:      t.total,
		Downloaded: t.downloaded,
		Failed:     t.failed,
		Skipped:    t.skipped,
	}
}

// PlaylistTitle returns the playlist title observed in events, if any.
func (t *Tracker) PlaylistTitle() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playlistTitle
}

// FailedItems returns the accumulated genuine failures.
func (t *Tracker) FailedItems() []model.FailedItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]model.FailedItem(nil), t.failedItems...)
}

// SkippedItems returns the accumulated archive skips.
func (t *Tracker) SkippedItems() []model.SkippedItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]model.SkippedItem(nil), t.skippedItems...)
}

// ActivePaths returns files observed downloading and not yet finished;
// cleanup treats them as candidates.
func (t *Tracker) ActivePaths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	paths := make([]string, 0, len(t.activeFiles))
	for p := range t.activeFiles {
		paths = append(paths, p)
	}
	return paths
}

// ErrorSummary renders a short human summary like
// "2 video(s) failed, 1 video(s) skipped", or "" when both are zero.
func (t *Tracker) ErrorSummary() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var parts []string
	if t.failed > 0 {
		parts = append(parts, fmt.Sprintf("%d video(s) failed", t.failed))
	}
	if t.skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d video(s) skipped", t.skipped))
	}
	return strings.Join(parts, ", ")
}

// progressLine renders one throttled status line.
func progressLine(name string, ev provider.Event) string {
	if ev.Speed > 0 && ev.ETASec > 0 {
		eta := fmt.Sprintf("%ds", ev.ETASec)
		if ev.ETASec > 60 {
			eta = fmt.Sprintf("%dm %ds", ev.ETASec/60, ev.ETASec%60)
		}
		return fmt.Sprintf("Downloading: %s - %.1f%% (%.1f MB/s, ETA: %s)",
			name, ev.Percent, ev.Speed/bytesPerMB, eta)
	}
	if ev.Percent > 0 {
		return fmt.Sprintf("Downloading: %s - %.1f%%", name, ev.Percent)
	}
	return fmt.Sprintf("Downloading: %s", name)
}

// stemOf returns the base filename without extension.
func stemOf(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base
}
