package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/tubegrab/tubegrab/internal/model"
	"github.com/tubegrab/tubegrab/internal/platform"
)

// TaskRow is one compact row in the task list: title, status, progress bar,
// and action buttons.
type TaskRow struct {
	widget.BaseWidget

	taskID string

	titleLabel  *widget.Label
	statusLabel *widget.Label
	progressBar *widget.ProgressBar
	detailLabel *widget.Label

	startStopBtn *widget.Button
	revealBtn    *widget.Button
	optionsBtn   *widget.Button
	removeBtn    *widget.Button

	onStartStop func(taskID string)
	onReveal    func(taskID string)
	onRemove    func(taskID string)
	onOptions   func(taskID string)
}

// NewTaskRow creates an empty row; UpdateTask fills it in.
func NewTaskRow() *TaskRow {
	tr := &TaskRow{}
	tr.ExtendBaseWidget(tr)

	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis
	tr.statusLabel = widget.NewLabel("")
	tr.progressBar = widget.NewProgressBar()
	tr.detailLabel = widget.NewLabel("")

	tr.startStopBtn = widget.NewButton("Start", func() { tr.fire(tr.onStartStop) })
	tr.revealBtn = widget.NewButton("Reveal", func() { tr.fire(tr.onReveal) })
	tr.optionsBtn = widget.NewButton("Options", func() { tr.fire(tr.onOptions) })
	tr.removeBtn = widget.NewButton("Remove", func() { tr.fire(tr.onRemove) })
	tr.removeBtn.Importance = widget.LowImportance

	return tr
}

// SetCallbacks wires the action callbacks.
func (tr *TaskRow) SetCallbacks(onStartStop, onReveal, onRemove, onOptions func(taskID string)) {
	tr.onStartStop = onStartStop
	tr.onReveal = onReveal
	tr.onRemove = onRemove
	tr.onOptions = onOptions
}

// UpdateTask renders a snapshot into the row.
func (tr *TaskRow) UpdateTask(task model.DownloadTask) {
	tr.taskID = task.ID

	title := task.GetDisplayTitle()
	if title == "" {
		title = "(new task)"
	}
	tr.titleLabel.SetText(title)
	tr.statusLabel.SetText(statusText(task))
	tr.progressBar.SetValue(task.Progress)
	tr.detailLabel.SetText(detailText(task))

	if task.Status.IsActive() {
		tr.startStopBtn.SetText("Stop")
	} else {
		tr.startStopBtn.SetText("Start")
	}
	if task.OutputPath == "" {
		tr.revealBtn.Disable()
	} else {
		tr.revealBtn.Enable()
	}

	tr.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	buttons := container.NewHBox(tr.startStopBtn, tr.revealBtn, tr.optionsBtn, tr.removeBtn)
	header := container.NewBorder(nil, nil, nil, tr.statusLabel, tr.titleLabel)
	content := container.NewVBox(header, tr.progressBar, container.NewBorder(nil, nil, nil, buttons, tr.detailLabel))
	return widget.NewSimpleRenderer(content)
}

func (tr *TaskRow) fire(cb func(string)) {
	if cb != nil && tr.taskID != "" {
		cb(tr.taskID)
	}
}

// statusText renders the status cell, appending playlist counts when known.
func statusText(task model.DownloadTask) string {
	s := task.Status.String()
	if task.Playlist && task.Summary.Total > 0 {
		s = fmt.Sprintf("%s (%d/%d)", s, task.Summary.Completed(), task.Summary.Total)
	}
	return s
}

// detailText renders the speed/ETA/error line under the progress bar.
func detailText(task model.DownloadTask) string {
	switch {
	case task.Status == model.TaskStatusDownloading:
		parts := []string{fmt.Sprintf("%d%%", task.Percent)}
		if task.Speed != "" {
			parts = append(parts, task.Speed)
		}
		parts = append(parts, "ETA "+task.GetETAString())
		return strings.Join(parts, " · ")
	case task.LastError != "":
		return task.LastError
	default:
		return ""
	}
}

// revealPath shows a finished file in the system file manager. URLs are
// rejected; only local paths reach the platform helper.
func revealPath(path string) error {
	if strings.HasPrefix(path, "http") {
		return fmt.Errorf("not a local file: %s", path)
	}
	return platform.RevealFile(path)
}
