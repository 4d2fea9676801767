package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/tubegrab/tubegrab/internal/app"
	"github.com/tubegrab/tubegrab/internal/config"
	"github.com/tubegrab/tubegrab/internal/model"
)

// progressBarWidth is the rendered bar width in terminal cells.
const progressBarWidth = 30

// Runner drives downloads from a terminal: one task at a time, a progress
// bar for the current file, log lines printed above it.
type Runner struct {
	appCtx   *app.Context
	settings config.FileSettings
	out      io.Writer

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	done chan model.DownloadTask
	task string // ID of the task currently being watched
}

// NewRunner creates a terminal runner writing to out.
func NewRunner(appCtx *app.Context, settings config.FileSettings, out io.Writer) *Runner {
	r := &Runner{appCtx: appCtx, settings: settings, out: out}
	appCtx.Service.SetUpdateCallback(r.onUpdate)
	appCtx.Service.SetLogCallback(r.onLog)
	return r
}

// Download runs one URL to completion and returns an error for a failed
// outcome. Aborts (Ctrl-C) return nil; the partial cleanup already ran.
func (r *Runner) Download(rawURL string, mode model.Mode) error {
	svc := r.appCtx.Service

	task := svc.AddTask(rawURL, r.settings.DownloadDir, mode)
	err := svc.UpdateTask(task.ID(), func(state *model.DownloadTask) {
		state.Options = r.settings.Options()
		state.CookieFile = r.settings.CookieFile
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.task = task.ID()
	r.done = make(chan model.DownloadTask, 1)
	done := r.done
	r.mu.Unlock()

	if err := svc.StartTask(task.ID()); err != nil {
		return err
	}

	final := <-done
	r.finishBar()

	switch final.Status {
	case model.TaskStatusCompleted:
		fmt.Fprintf(r.out, "Done: %s\n", final.GetDisplayTitle())
		return nil
	case model.TaskStatusCompletedWithIssues:
		fmt.Fprintf(r.out, "Done with issues: %s\n", final.LastError)
		return nil
	case model.TaskStatusAborted:
		fmt.Fprintln(r.out, "Aborted.")
		return nil
	default:
		return fmt.Errorf("download failed: %s", final.LastError)
	}
}

// Abort stops whatever is running. Safe to call from a signal handler
// goroutine.
func (r *Runner) Abort() {
	r.appCtx.Service.AbortAll()
}

// onUpdate drives the progress bar from task snapshots.
func (r *Runner) onUpdate(task model.DownloadTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID != r.task {
		return
	}

	if task.Status == model.TaskStatusDownloading {
		if r.bar == nil {
			r.bar = progressbar.NewOptions(100,
				progressbar.OptionSetWriter(r.out),
				progressbar.OptionSetWidth(progressBarWidth),
				progressbar.OptionSetDescription(shortTitle(task)),
				progressbar.OptionSetPredictTime(false),
				progressbar.OptionShowCount(),
			)
		}
		_ = r.bar.Set(task.Percent)
	}

	if task.Status.IsFinished() && r.done != nil {
		select {
		case r.done <- task:
		default:
		}
		r.done = nil
	}
}

// onLog prints a log line without corrupting the bar.
func (r *Runner) onLog(taskID, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if taskID != r.task {
		return
	}
	if r.bar != nil {
		_ = r.bar.Clear()
	}
	fmt.Fprintln(r.out, line)
}

// finishBar closes out the current bar, if any.
func (r *Runner) finishBar() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Finish()
		fmt.Fprintln(r.out)
		r.bar = nil
	}
}

// shortTitle truncates the task title for the bar description.
func shortTitle(task model.DownloadTask) string {
	title := task.GetDisplayTitle()
	if len(title) > 40 {
		title = title[:37] + "..."
	}
	return title
}
