package model

// TaskStatus represents the lifecycle state of a download task
type TaskStatus string

const (
	// TaskStatusIdle means the task exists but is not running
	TaskStatusIdle TaskStatus = "Idle"

	// TaskStatusStarting means the task is preparing to download
	TaskStatusStarting TaskStatus = "Starting"

	// TaskStatusDownloading means the provider call is in flight
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusAborting means an abort was requested and the task is unwinding
	TaskStatusAborting TaskStatus = "Aborting"

	// TaskStatusCompleted means the task finished with no failed or skipped items
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusCompletedWithIssues means the task finished but some items failed or were skipped
	TaskStatusCompletedWithIssues TaskStatus = "Completed with issues"

	// TaskStatusAborted means the task was stopped by user request
	TaskStatusAborted TaskStatus = "Aborted"

	// TaskStatusFailed means the task stopped on an error
	TaskStatusFailed TaskStatus = "Failed"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusStarting || ts == TaskStatusDownloading || ts == TaskStatusAborting
}

// IsFinished returns true if the task reached a terminal state
func (ts TaskStatus) IsFinished() bool {
	switch ts {
	case TaskStatusCompleted, TaskStatusCompletedWithIssues, TaskStatusAborted, TaskStatusFailed:
		return true
	}
	return false
}

// Mode selects what a task downloads
type Mode string

const (
	// ModeAudio extracts an mp3 via the ffmpeg postprocessor pipeline
	ModeAudio Mode = "audio"

	// ModeVideo downloads best video+audio
	ModeVideo Mode = "video"
)

// String returns the string representation of Mode
func (m Mode) String() string {
	return string(m)
}
