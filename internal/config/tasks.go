package config

import (
	"encoding/json"

	"github.com/tubegrab/tubegrab/internal/model"
)

// SavedTask is the persisted shape of one unfinished task, restored at next
// launch when the restore option is on. Runtime fields (status, progress)
// are intentionally not saved; restored tasks come back idle.
type SavedTask struct {
	URL        string        `json:"url"`
	Mode       model.Mode    `json:"mode"`
	OutputDir  string        `json:"output_dir"`
	Options    model.Options `json:"options"`
	CookieFile string        `json:"cookie_file,omitempty"`
}

// SaveTasks persists the unfinished subset of tasks for the next launch.
func (s *Settings) SaveTasks(tasks []model.DownloadTask) error {
	var saved []SavedTask
	for _, t := range tasks {
		if t.Status == model.TaskStatusCompleted {
			continue
		}
		saved = append(saved, SavedTask{
			URL:        t.URL,
			Mode:       t.Mode,
			OutputDir:  t.OutputDir,
			Options:    t.Options,
			CookieFile: t.CookieFile,
		})
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return err
	}
	s.app.Preferences().SetString(KeySavedTasks, string(data))
	return nil
}

// LoadTasks returns the tasks saved by the previous session. A missing or
// unreadable blob yields an empty list.
func (s *Settings) LoadTasks() []SavedTask {
	data := s.app.Preferences().String(KeySavedTasks)
	if data == "" {
		return nil
	}
	var saved []SavedTask
	if err := json.Unmarshal([]byte(data), &saved); err != nil {
		return nil
	}
	return saved
}

// ClearSavedTasks drops the persisted task list.
func (s *Settings) ClearSavedTasks() {
	s.app.Preferences().SetString(KeySavedTasks, "")
}
