package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/tubegrab/tubegrab/internal/app"
	"github.com/tubegrab/tubegrab/internal/config"
	"github.com/tubegrab/tubegrab/internal/model"
)

// UI constants
const (
	WindowTitle    = "TubeGrab"
	WindowWidth    = 860
	WindowHeight   = 560
	LogPaneLines   = 200
	updateDebounce = 100 * time.Millisecond
)

// RootUI is the main window: URL row on top, task list in the middle, log
// pane at the bottom.
type RootUI struct {
	appCtx   *app.Context
	window   fyne.Window
	settings *config.Settings

	urlEntry    *widget.Entry
	modeSelect  *widget.Select
	downloadBtn *widget.Button
	taskList    *widget.List
	logView     *widget.Label

	mu         sync.Mutex
	tasks      []model.DownloadTask
	logLines   []string
	lastRedraw time.Time
}

// NewRootUI builds the main window and wires the service callbacks.
func NewRootUI(fyneApp fyne.App, window fyne.Window, appCtx *app.Context) *RootUI {
	ui := &RootUI{
		appCtx:   appCtx,
		window:   window,
		settings: config.NewSettings(fyneApp),
	}

	window.SetTitle(WindowTitle)
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	appCtx.Service.SetUpdateCallback(ui.onTaskUpdate)
	appCtx.Service.SetLogCallback(ui.onTaskLog)
	appCtx.Service.SetMaxParallel(ui.settings.GetMaxParallelDownloads())

	ui.setupUI()
	ui.restoreTasks()
	return ui
}

// setupUI creates and arranges all window components.
func (ui *RootUI) setupUI() {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("Paste a video or playlist URL")
	ui.urlEntry.OnSubmitted = func(string) { ui.onDownloadClick() }

	ui.modeSelect = widget.NewSelect(
		[]string{model.ModeAudio.String(), model.ModeVideo.String()}, nil)
	ui.modeSelect.SetSelected(ui.settings.GetDefaultMode().String())

	ui.downloadBtn = widget.NewButton("Download", ui.onDownloadClick)

	settingsBtn := widget.NewButton("Settings", func() {
		ShowSettingsDialog(ui.window, ui.settings, func() {
			ui.appCtx.Service.SetMaxParallel(ui.settings.GetMaxParallelDownloads())
		})
	})
	settingsBtn.Importance = widget.LowImportance

	topPanel := container.NewBorder(nil, nil, settingsBtn,
		container.NewHBox(ui.modeSelect, ui.downloadBtn), ui.urlEntry)

	ui.taskList = widget.NewList(
		func() int {
			ui.mu.Lock()
			defer ui.mu.Unlock()
			return len(ui.tasks)
		},
		func() fyne.CanvasObject { return NewTaskRow() },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			ui.mu.Lock()
			var task model.DownloadTask
			if id < len(ui.tasks) {
				task = ui.tasks[id]
			}
			ui.mu.Unlock()
			if row, ok := obj.(*TaskRow); ok && task.ID != "" {
				row.SetCallbacks(ui.onStartStop, ui.onReveal, ui.onRemove, ui.onShowOptions)
				row.UpdateTask(task)
			}
		},
	)

	ui.logView = widget.NewLabel("")
	ui.logView.Wrapping = fyne.TextWrapWord
	logScroll := container.NewVScroll(ui.logView)
	logScroll.SetMinSize(fyne.NewSize(0, 140))

	content := container.NewBorder(topPanel, logScroll, nil, nil, ui.taskList)
	ui.window.SetContent(content)
}

// onDownloadClick adds a task for the entered URL and starts it.
func (ui *RootUI) onDownloadClick() {
	urlText := strings.TrimSpace(ui.urlEntry.Text)
	if urlText == "" {
		widget.ShowPopUp(widget.NewLabel("Please enter a URL"), ui.window.Canvas())
		return
	}

	mode := model.Mode(ui.modeSelect.Selected)
	task := ui.appCtx.Service.AddTask(urlText, ui.settings.GetDownloadDirectory(), mode)
	if cookie := ui.settings.GetCookieFile(); cookie != "" {
		_ = ui.appCtx.Service.UpdateTask(task.ID(), func(state *model.DownloadTask) {
			state.CookieFile = cookie
		})
	}

	if err := ui.appCtx.Service.StartTask(task.ID()); err != nil {
		widget.ShowPopUp(widget.NewLabel("Cannot start: "+err.Error()), ui.window.Canvas())
		return
	}
	ui.urlEntry.SetText("")
}

// onStartStop toggles a task between running and stopped.
func (ui *RootUI) onStartStop(taskID string) {
	task, ok := ui.appCtx.Service.GetTask(taskID)
	if !ok {
		return
	}
	var err error
	if task.Status.IsActive() {
		err = ui.appCtx.Service.AbortTask(taskID)
	} else {
		err = ui.appCtx.Service.StartTask(taskID)
	}
	if err != nil {
		widget.ShowPopUp(widget.NewLabel(err.Error()), ui.window.Canvas())
	}
}

// onReveal shows the downloaded file in the system file manager.
func (ui *RootUI) onReveal(taskID string) {
	task, ok := ui.appCtx.Service.GetTask(taskID)
	if !ok || task.OutputPath == "" {
		widget.ShowPopUp(widget.NewLabel("No file to reveal yet"), ui.window.Canvas())
		return
	}
	if err := revealPath(task.OutputPath); err != nil {
		widget.ShowPopUp(widget.NewLabel("Cannot reveal file: "+err.Error()), ui.window.Canvas())
	}
}

// onRemove aborts (if needed) and removes a task.
func (ui *RootUI) onRemove(taskID string) {
	if err := ui.appCtx.Service.RemoveTask(taskID); err != nil {
		widget.ShowPopUp(widget.NewLabel(err.Error()), ui.window.Canvas())
		return
	}
	ui.refreshTasks()
}

// onShowOptions opens the per-task options dialog.
func (ui *RootUI) onShowOptions(taskID string) {
	task, ok := ui.appCtx.Service.GetTask(taskID)
	if !ok {
		return
	}
	ShowOptionsDialog(ui.window, task, func(opts model.Options) {
		err := ui.appCtx.Service.UpdateTask(taskID, func(state *model.DownloadTask) {
			state.Options = opts
		})
		if err != nil {
			widget.ShowPopUp(widget.NewLabel(err.Error()), ui.window.Canvas())
		}
	})
}

// onTaskUpdate receives task snapshots from worker goroutines.
func (ui *RootUI) onTaskUpdate(task model.DownloadTask) {
	ui.mu.Lock()
	now := time.Now()
	if !redrawNow(task.Status, ui.lastRedraw, now) {
		ui.mu.Unlock()
		return
	}
	ui.lastRedraw = now
	ui.mu.Unlock()
	ui.refreshTasks()
}

// redrawNow debounces full-list redraws; byte ticks arrive far faster than
// 10 Hz. Terminal snapshots always redraw so a row cannot stay stuck on a
// stale running state when the finish lands inside the debounce window.
func redrawNow(status model.TaskStatus, lastRedraw, now time.Time) bool {
	if status.IsFinished() {
		return true
	}
	return now.Sub(lastRedraw) >= updateDebounce
}

// onTaskLog appends one line to the log pane.
func (ui *RootUI) onTaskLog(_, line string) {
	ui.mu.Lock()
	ui.logLines = append(ui.logLines, line)
	if len(ui.logLines) > LogPaneLines {
		ui.logLines = ui.logLines[len(ui.logLines)-LogPaneLines:]
	}
	text := strings.Join(ui.logLines, "\n")
	ui.mu.Unlock()

	fyne.Do(func() {
		ui.logView.SetText(text)
	})
}

// refreshTasks reloads snapshots and redraws the list on the UI thread.
func (ui *RootUI) refreshTasks() {
	snapshot := ui.appCtx.Service.GetAllTasks()
	ui.mu.Lock()
	ui.tasks = snapshot
	ui.mu.Unlock()

	fyne.Do(func() {
		ui.taskList.Refresh()
	})
}

// restoreTasks re-adds unfinished tasks saved by the previous session.
func (ui *RootUI) restoreTasks() {
	if !ui.settings.GetRestoreTasksOnStart() {
		return
	}
	for _, saved := range ui.settings.LoadTasks() {
		task := ui.appCtx.Service.AddTask(saved.URL, saved.OutputDir, saved.Mode)
		opts := saved.Options
		cookie := saved.CookieFile
		_ = ui.appCtx.Service.UpdateTask(task.ID(), func(state *model.DownloadTask) {
			state.Options = opts
			state.CookieFile = cookie
		})
	}
	ui.refreshTasks()
}

// PersistTasks saves unfinished tasks for the next session. Called on close.
func (ui *RootUI) PersistTasks() {
	if err := ui.settings.SaveTasks(ui.appCtx.Service.GetAllTasks()); err != nil {
		widget.ShowPopUp(widget.NewLabel(fmt.Sprintf("Cannot save tasks: %v", err)), ui.window.Canvas())
	}
}
