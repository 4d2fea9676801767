package download

import (
	"sync"

	"github.com/tubegrab/tubegrab/internal/model"
)

// Task is one unit of work: one URL, one provider invocation at a time, one
// abort controller, one tracker. Shells observe it through snapshots only.
// The configured OutputDir is never mutated by a run; the per-run resolved
// directory (playlist subdirectory) lives in runDir.
type Task struct {
	mu      sync.Mutex
	state   model.DownloadTask
	abort   *abortController
	tracker *Tracker
	runDir  string
}

// Snapshot returns a copy of the task's reported state.
func (t *Task) Snapshot() model.DownloadTask {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// ID returns the task's identifier.
func (t *Task) ID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.ID
}

func (t *Task) update(apply func(*model.DownloadTask)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	apply(&t.state)
}

// beginRun installs the run's abort controller and drops runtime state left
// over from a previous invocation. Called before the worker goroutine is
// launched so an abort request during pre-flight already has a target.
func (t *Task) beginRun(a *abortController) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.abort = a
	t.tracker = nil
	t.runDir = ""
}

func (t *Task) setTracker(tr *Tracker) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tracker = tr
}

// activePaths returns the in-flight file paths of the current run, nil
// before the first progress event.
func (t *Task) activePaths() []string {
	t.mu.Lock()
	tr := t.tracker
	t.mu.Unlock()
	if tr == nil {
		return nil
	}
	return tr.ActivePaths()
}

func (t *Task) setRunDir(dir string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runDir = dir
}

// currentRunDir is the directory the active run writes into, falling back
// to the configured output directory before the run resolved it.
func (t *Task) currentRunDir() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.runDir != "" {
		return t.runDir
	}
	return t.state.OutputDir
}

func (t *Task) abortController() *abortController {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.abort
}

// abortRequested reports whether this run's abort token is set.
func (t *Task) abortRequested() bool {
	a := t.abortController()
	return a != nil && a.Aborted()
}
