package ui

import (
	"testing"
	"time"

	"github.com/tubegrab/tubegrab/internal/model"
)

func TestRedrawNow(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    model.TaskStatus
		sinceLast time.Duration
		want      bool
	}{
		{"progress tick inside window is suppressed", model.TaskStatusDownloading, updateDebounce / 2, false},
		{"progress tick past window redraws", model.TaskStatusDownloading, updateDebounce, true},
		{"completed inside window still redraws", model.TaskStatusCompleted, time.Millisecond, true},
		{"failed inside window still redraws", model.TaskStatusFailed, time.Millisecond, true},
		{"aborted inside window still redraws", model.TaskStatusAborted, time.Millisecond, true},
		{"completed with issues inside window still redraws", model.TaskStatusCompletedWithIssues, time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redrawNow(tt.status, now.Add(-tt.sinceLast), now); got != tt.want {
				t.Errorf("redrawNow(%s, %v ago) = %v, want %v", tt.status, tt.sinceLast, got, tt.want)
			}
		})
	}
}
