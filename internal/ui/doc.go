// Package ui is the Fyne desktop shell: one window with a URL entry, the
// task list, per-task options, and a log pane. All state lives in the
// download service; the shell only renders snapshots and forwards clicks.
package ui
