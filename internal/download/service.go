package download

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tubegrab/tubegrab/internal/cleanup"
	"github.com/tubegrab/tubegrab/internal/model"
	"github.com/tubegrab/tubegrab/internal/platform"
	"github.com/tubegrab/tubegrab/internal/playlist"
	"github.com/tubegrab/tubegrab/internal/provider"
)

// Service owns all download tasks. Each running task gets its own worker
// goroutine, context, tracker, and abort controller; the service itself only
// coordinates. Shells observe tasks via snapshots through the update
// callback, never by sharing memory with workers.
type Service struct {
	tasksMutex sync.RWMutex
	tasks      map[string]*Task
	order      []string // insertion order for stable listing

	provider    provider.Provider
	lister      PlaylistLister
	caps        platform.Capabilities
	cleaner     *cleanup.Cleaner
	history     HistoryRecorder
	logger      *zap.Logger
	maxParallel int // 0 means unlimited

	onUpdate func(model.DownloadTask)         // task snapshot changed
	onLog    func(taskID string, line string) // human-readable per-task log line
}

// NewService creates a download service. history may be nil when run
// recording is disabled.
func NewService(p provider.Provider, lister PlaylistLister, caps platform.Capabilities, logger *zap.Logger) *Service {
	return &Service{
		tasks:    make(map[string]*Task),
		provider: p,
		lister:   lister,
		caps:     caps,
		cleaner:  cleanup.New(logger),
		logger:   logger,
	}
}

// SetUpdateCallback sets the callback invoked with a task snapshot on every
// observable change. Called from worker goroutines; shells must marshal to
// their own thread.
func (s *Service) SetUpdateCallback(callback func(model.DownloadTask)) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.onUpdate = callback
}

// SetLogCallback sets the callback receiving per-task log lines.
func (s *Service) SetLogCallback(callback func(taskID, line string)) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.onLog = callback
}

// SetMaxParallel caps how many tasks may be active at once; 0 lifts the
// cap. StartTask refuses rather than queues when the cap is reached.
func (s *Service) SetMaxParallel(n int) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.maxParallel = n
}

// SetHistory attaches a finished-run recorder.
func (s *Service) SetHistory(h HistoryRecorder) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.history = h
}

// AddTask creates a new idle task. The URL may still be empty; validation
// happens at start, so shells can create a row first and fill it in.
func (s *Service) AddTask(rawURL, outputDir string, mode model.Mode) *Task {
	t := &Task{
		state: model.DownloadTask{
			ID:        uuid.NewString(),
			URL:       strings.TrimSpace(rawURL),
			Mode:      mode,
			OutputDir: outputDir,
			Options:   model.DefaultOptions(),
			Status:    model.TaskStatusIdle,
			ETASec:    -1,
		},
	}
	t.state.Playlist = platform.IsPlaylistURL(t.state.URL)

	s.tasksMutex.Lock()
	s.tasks[t.state.ID] = t
	s.order = append(s.order, t.state.ID)
	s.tasksMutex.Unlock()

	s.notify(t)
	return t
}

// UpdateTask reconfigures an idle or finished task. Running tasks cannot be
// reconfigured.
func (s *Service) UpdateTask(id string, apply func(*model.DownloadTask)) error {
	t, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("task not found: %s", id)
	}
	var active bool
	t.update(func(state *model.DownloadTask) {
		if state.Status.IsActive() {
			active = true
			return
		}
		apply(state)
		state.URL = strings.TrimSpace(state.URL)
		state.Playlist = platform.IsPlaylistURL(state.URL)
	})
	if active {
		return fmt.Errorf("task is running: %s", id)
	}
	s.notify(t)
	return nil
}

// GetTask returns a snapshot of one task.
func (s *Service) GetTask(id string) (model.DownloadTask, bool) {
	t, ok := s.lookup(id)
	if !ok {
		return model.DownloadTask{}, false
	}
	return t.Snapshot(), true
}

// GetAllTasks returns snapshots of all tasks in creation order.
func (s *Service) GetAllTasks() []model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	out := make([]model.DownloadTask, 0, len(s.order))
	for _, id := range s.order {
		if t, ok := s.tasks[id]; ok {
			out = append(out, t.Snapshot())
		}
	}
	return out
}

// StartTask validates the task and launches its worker goroutine. A task
// already active is an error; a finished task may be started again.
func (s *Service) StartTask(id string) error {
	t, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("task not found: %s", id)
	}

	s.tasksMutex.RLock()
	limit := s.maxParallel
	s.tasksMutex.RUnlock()
	if limit > 0 && s.ActiveCount() >= limit {
		return fmt.Errorf("parallel download limit reached (%d)", limit)
	}

	var startErr error
	t.update(func(state *model.DownloadTask) {
		if state.Status.IsActive() {
			startErr = fmt.Errorf("task already running: %s", id)
			return
		}
		if err := validateTaskInput(state); err != nil {
			startErr = err
			return
		}
		state.Status = model.TaskStatusStarting
		state.Progress = 0
		state.Percent = 0
		state.Speed = ""
		state.ETASec = -1
		state.LastError = ""
		state.Summary = model.Snapshot{}
		state.StartedAt = time.Now()
		state.FinishedAt = time.Time{}
	})
	if startErr != nil {
		return startErr
	}

	// The abort controller must exist before the worker does anything, so
	// an AbortTask during the playlist pre-flight already cancels and
	// cleans up instead of hitting a nil controller.
	ctx, cancel := context.WithCancel(context.Background())
	t.beginRun(newAbortController(cancel, func() { s.abortCleanup(t) }))

	s.notify(t)
	go s.runTask(t, ctx, cancel)
	return nil
}

// abortCleanup removes incomplete files of an aborted run. Before the run
// resolved its directory or produced any file this is a no-op pass over the
// configured output directory.
func (s *Service) abortCleanup(t *Task) {
	snap := t.Snapshot()
	res := s.cleaner.Run(t.currentRunDir(), cleanup.SituationAbort, cleanup.Policy{
		ActivePaths:     t.activePaths(),
		KeepInfoJSON:    snap.Options.WriteInfoJSON,
		KeepDescription: snap.Options.WriteDescription,
		KeepSubtitles:   snap.Options.WriteSubtitles,
	})
	if res.CleanedCount > 0 {
		s.logf(snap.ID, "Removed %d incomplete file(s).", res.CleanedCount)
	}
}

// AbortTask requests a cooperative stop. By the time this returns, the
// task's incomplete-file cleanup has been triggered; the worker unwinds on
// its own once the provider call returns.
func (s *Service) AbortTask(id string) error {
	t, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("task not found: %s", id)
	}

	var active bool
	t.update(func(state *model.DownloadTask) {
		if state.Status.IsActive() {
			active = true
			state.Status = model.TaskStatusAborting
		}
	})
	if !active {
		return fmt.Errorf("task is not active: %s", id)
	}
	s.notify(t)

	if a := t.abortController(); a != nil {
		a.Request()
	}
	return nil
}

// RemoveTask aborts (if running) and forgets a task.
func (s *Service) RemoveTask(id string) error {
	t, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("task not found: %s", id)
	}
	if t.Snapshot().Status.IsActive() {
		_ = s.AbortTask(id)
	}

	s.tasksMutex.Lock()
	delete(s.tasks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.tasksMutex.Unlock()
	return nil
}

// StartAll starts every startable task. Invalid tasks are skipped with a
// log line rather than blocking the rest.
func (s *Service) StartAll() {
	for _, snap := range s.GetAllTasks() {
		if snap.Status.IsActive() {
			continue
		}
		if err := s.StartTask(snap.ID); err != nil {
			s.logf(snap.ID, "Not started: %v", err)
		}
	}
}

// AbortAll requests an abort on every active task.
func (s *Service) AbortAll() {
	for _, snap := range s.GetAllTasks() {
		if snap.Status.IsActive() {
			_ = s.AbortTask(snap.ID)
		}
	}
}

// ActiveCount returns how many tasks are currently active.
func (s *Service) ActiveCount() int {
	count := 0
	for _, snap := range s.GetAllTasks() {
		if snap.Status.IsActive() {
			count++
		}
	}
	return count
}

// runTask is the worker for one task invocation: pre-flight, provider call,
// epilogue. It owns the task's output directory for the duration; concurrent
// tasks must use distinct directories.
func (s *Service) runTask(t *Task, ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	snap := t.Snapshot()
	taskID := snap.ID

	// Playlist pre-flight: flat listing for the progress denominator, the
	// expected titles, and the playlist directory name.
	var listing *model.PlaylistListing
	if snap.Playlist && s.lister != nil {
		l, err := s.lister.List(ctx, snap.URL)
		if err != nil {
			s.logf(taskID, "Playlist listing unavailable, continuing without a pre-count: %v", err)
		} else {
			listing = l
		}
	}

	targetDir := snap.OutputDir
	playlistTitle := ""
	if listing != nil {
		playlistTitle = listing.Title
	}

	reconcile := snap.Playlist && snap.Options.CreateM3U
	var rec *playlist.Reconciler
	if reconcile {
		rec = playlist.NewReconciler(snap.Options.M3UToParent, s.logger)
		if playlistTitle != "" {
			targetDir = appendSanitizedDir(snap.OutputDir, playlistTitle)
		}
	}

	if err := platform.CreateDirectoryIfNotExists(targetDir); err != nil {
		s.finishFailed(t, fmt.Sprintf("cannot create output directory: %v", err))
		return
	}
	t.setRunDir(targetDir)

	if platform.IsLowOnSpace(targetDir) {
		s.logf(taskID, "Warning: the target volume is low on free space.")
	}

	if listing != nil {
		s.logf(taskID, "Playlist: %s (%d items)", listing.Title, len(listing.Entries))
		t.update(func(state *model.DownloadTask) {
			state.PlaylistTitle = listing.Title
			state.Summary.Total = len(listing.Entries)
		})
		s.notify(t)
	}

	if reconcile && listing != nil {
		if err := rec.ReconcileBeforeStart(targetDir, listing.Title, listing.Entries); err != nil {
			s.logf(taskID, "Playlist reconciliation failed: %v", err)
		}
	}

	cfg, err := BuildConfig(BuildInput{
		Mode:            snap.Mode,
		Playlist:        snap.Playlist,
		OutputDir:       targetDir,
		Options:         snap.Options,
		CookieFile:      snap.CookieFile,
		FFmpegAvailable: s.caps.HasFFmpeg(),
	})
	if err != nil {
		var capErr *provider.CapabilityError
		if errors.As(err, &capErr) {
			s.logf(taskID, "Cannot start: %s is not installed.", capErr.Capability)
			for _, line := range strings.Split(capErr.Remediation, "\n") {
				s.logf(taskID, "%s", line)
			}
		}
		s.finishFailed(t, err.Error())
		return
	}

	total := 0
	if listing != nil {
		total = len(listing.Entries)
	}
	tracker := NewTracker(snap.URL, total, func(line string) {
		s.logf(taskID, "%s", line)
	})
	t.setTracker(tracker)

	// An abort that arrived during pre-flight ends the run here, before the
	// provider is ever invoked. The status check also catches a request
	// that raced StartTask before this run's controller was installed.
	if t.abortRequested() || t.Snapshot().Status == model.TaskStatusAborting {
		s.finishTask(t, tracker, rec, targetDir, playlistTitle, snap, provider.ErrAborted)
		return
	}

	var guard *archiveGuard
	if snap.Playlist && snap.Options.ForcePlaylistRedownload {
		guard = suspendArchive(targetDir, s.logger)
		s.logf(taskID, "Forcing redownload: archive skip protection is suspended for this run.")
	}

	t.update(func(state *model.DownloadTask) {
		if state.Status != model.TaskStatusAborting {
			state.Status = model.TaskStatusDownloading
		}
	})
	s.notify(t)

	sink := func(ev provider.Event) {
		tracker.OnEvent(ev)
		if reconcile && (ev.Status == provider.StatusFinished || ev.Status == provider.StatusPostprocessor) {
			rec.UpdateOnItemFinished(ev)
		}
		s.applyEvent(t, tracker, ev)
	}

	runErr := s.provider.Run(ctx, snap.URL, cfg, sink)

	if guard != nil {
		guard.restore(s.logger)
	}

	s.finishTask(t, tracker, rec, targetDir, playlistTitle, snap, runErr)
}

// applyEvent folds one provider event into the task snapshot and notifies.
func (s *Service) applyEvent(t *Task, tracker *Tracker, ev provider.Event) {
	t.update(func(state *model.DownloadTask) {
		switch ev.Status {
		case provider.StatusDownloading:
			state.Percent = int(ev.Percent)
			state.Progress = ev.Percent / 100.0
			if ev.Speed > 0 {
				state.Speed = fmt.Sprintf("%.1fMB/s", ev.Speed/bytesPerMB)
			}
			state.ETASec = ev.ETASec
			if ev.Filename != "" {
				state.OutputPath = ev.Filename
			}
			if ev.Info.Title != "" {
				state.Title = ev.Info.Title
			}
		case provider.StatusFinished, provider.StatusPostprocessor:
			if ev.Info.Filepath != "" {
				state.OutputPath = ev.Info.Filepath
			}
		}
		if ev.Info.PlaylistTitle != "" {
			state.PlaylistTitle = ev.Info.PlaylistTitle
		}
		state.Summary = tracker.Summary()
	})
	s.notify(t)
}

// finishTask classifies the outcome, runs the matching cleanup pass, settles
// the playlist file, writes the report, and records history.
func (s *Service) finishTask(t *Task, tracker *Tracker, rec *playlist.Reconciler, dir, playlistTitle string, snap model.DownloadTask, runErr error) {
	taskID := snap.ID
	// The abort token is the primary signal; the error sentinel and the
	// provider's own interruption phrasing are corroborating ones.
	aborted := t.abortRequested() ||
		errors.Is(runErr, provider.ErrAborted) ||
		(runErr != nil && provider.LooksAborted(runErr.Error()))
	policy := cleanup.Policy{
		ActivePaths:     tracker.ActivePaths(),
		KeepInfoJSON:    snap.Options.WriteInfoJSON,
		KeepDescription: snap.Options.WriteDescription,
		KeepSubtitles:   snap.Options.WriteSubtitles,
	}

	var status model.TaskStatus
	var lastError string

	switch {
	case aborted:
		status = model.TaskStatusAborted
		// At-most-once: a no-op when AbortTask already ran it.
		if a := t.abortController(); a != nil {
			a.runCleanup()
		}
		s.logf(taskID, "Download aborted.")

	case runErr != nil:
		status = model.TaskStatusFailed
		lastError = errText(runErr)
		s.cleaner.Run(dir, cleanup.SituationError, policy)
		s.logf(taskID, "Download failed: %s", lastError)

	default:
		if issues := tracker.ErrorSummary(); issues != "" {
			status = model.TaskStatusCompletedWithIssues
			lastError = issues
			s.logf(taskID, "Completed with issues: %s", issues)
		} else {
			status = model.TaskStatusCompleted
			s.logf(taskID, "Download completed.")
		}
		s.cleaner.Run(dir, cleanup.SituationPostProcessing, policy)
	}

	// The playlist file is settled even on abort so whatever finished is
	// playable; preferring the event-observed title over the pre-flight one.
	if rec != nil {
		title := tracker.PlaylistTitle()
		if title == "" {
			title = playlistTitle
		}
		if err := rec.Finalize(dir, title); err != nil {
			s.logf(taskID, "Playlist file update failed: %v", err)
		} else {
			s.logf(taskID, "M3U playlist updated.")
		}
	}

	if !aborted {
		if path, err := WriteReport(dir, tracker.FailedItems(), tracker.SkippedItems(), time.Now()); err != nil {
			s.logger.Warn("cannot write outcome report", zap.String("task", taskID), zap.Error(err))
		} else if path != "" {
			s.logf(taskID, "Report written: %s", path)
		}
	}

	summary := tracker.Summary()
	if snap.Playlist {
		s.logf(taskID, "Playlist finished: %d downloaded, %d failed, %d skipped.",
			summary.Downloaded, summary.Failed, summary.Skipped)
	}

	t.update(func(state *model.DownloadTask) {
		state.Status = status
		state.LastError = lastError
		state.Summary = summary
		state.FinishedAt = time.Now()
		if title := tracker.PlaylistTitle(); title != "" {
			state.PlaylistTitle = title
		}
		if status == model.TaskStatusCompleted {
			state.Progress = 1.0
			state.Percent = 100
		}
	})

	if s.recorder() != nil {
		final := t.Snapshot()
		if err := s.recorder().RecordTask(&final); err != nil {
			s.logger.Warn("cannot record run history", zap.String("task", taskID), zap.Error(err))
		}
	}

	s.notify(t)
}

// finishFailed marks a task failed before any provider call was made.
func (s *Service) finishFailed(t *Task, msg string) {
	t.update(func(state *model.DownloadTask) {
		state.Status = model.TaskStatusFailed
		state.LastError = msg
		state.FinishedAt = time.Now()
	})
	s.notify(t)
}

func (s *Service) lookup(id string) (*Task, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

func (s *Service) notify(t *Task) {
	s.tasksMutex.RLock()
	cb := s.onUpdate
	s.tasksMutex.RUnlock()
	if cb != nil {
		cb(t.Snapshot())
	}
}

func (s *Service) logf(taskID, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	s.logger.Info(line, zap.String("task", taskID))
	s.tasksMutex.RLock()
	cb := s.onLog
	s.tasksMutex.RUnlock()
	if cb != nil {
		cb(taskID, line)
	}
}

func (s *Service) recorder() HistoryRecorder {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return s.history
}

// validateTaskInput checks the fields a task needs before a worker starts.
func validateTaskInput(state *model.DownloadTask) error {
	if state.URL == "" {
		return fmt.Errorf("task has no URL")
	}
	u, err := url.Parse(state.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("not a valid http(s) URL: %s", state.URL)
	}
	if state.OutputDir == "" {
		return fmt.Errorf("task has no output directory")
	}
	if state.Mode != model.ModeAudio && state.Mode != model.ModeVideo {
		return fmt.Errorf("unknown download mode %q", state.Mode)
	}
	return nil
}

// appendSanitizedDir joins base with a filesystem-safe directory named after
// the playlist title.
func appendSanitizedDir(base, title string) string {
	name := provider.SanitizeFileName(strings.TrimSpace(title))
	if name == "" {
		return base
	}
	return filepath.Join(base, name)
}

// errText renders an error's message, preferring the friendly text of a
// fatal provider error.
func errText(err error) string {
	if err == nil {
		return ""
	}
	var fatal *provider.FatalError
	if errors.As(err, &fatal) && fatal.Msg != "" {
		return fatal.Msg
	}
	return err.Error()
}
