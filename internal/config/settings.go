package config

import (
	"fyne.io/fyne/v2"

	"github.com/tubegrab/tubegrab/internal/model"
	"github.com/tubegrab/tubegrab/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir  = "download_directory"
	KeyMaxParallel  = "max_parallel_downloads"
	KeyDefaultMode  = "default_mode"
	KeyCookieFile   = "cookie_file"
	KeyRestoreTasks = "restore_tasks_on_start"
	KeySavedTasks   = "saved_tasks"
)

// Default values
const (
	DefaultMaxParallel  = 2
	DefaultRestoreTasks = true

	maxParallelCeiling = 10
)

// Settings manages GUI configuration backed by Fyne preferences.
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = "/tmp/downloads"
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	if count < 1 {
		count = 1
	}
	if count > maxParallelCeiling {
		count = maxParallelCeiling
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetDefaultMode returns the mode new tasks start with.
func (s *Settings) GetDefaultMode() model.Mode {
	mode := model.Mode(s.app.Preferences().String(KeyDefaultMode))
	if mode != model.ModeAudio && mode != model.ModeVideo {
		s.SetDefaultMode(model.ModeAudio)
		return model.ModeAudio
	}
	return mode
}

// SetDefaultMode sets the mode new tasks start with.
func (s *Settings) SetDefaultMode(mode model.Mode) {
	s.app.Preferences().SetString(KeyDefaultMode, mode.String())
}

// GetCookieFile returns the configured browser-cookie export path, if any.
func (s *Settings) GetCookieFile() string {
	return s.app.Preferences().String(KeyCookieFile)
}

// SetCookieFile sets the browser-cookie export path.
func (s *Settings) SetCookieFile(path string) {
	s.app.Preferences().SetString(KeyCookieFile, path)
}

// GetRestoreTasksOnStart returns whether unfinished tasks are restored on launch.
func (s *Settings) GetRestoreTasksOnStart() bool {
	return s.app.Preferences().BoolWithFallback(KeyRestoreTasks, DefaultRestoreTasks)
}

// SetRestoreTasksOnStart sets whether unfinished tasks are restored on launch.
func (s *Settings) SetRestoreTasksOnStart(restore bool) {
	s.app.Preferences().SetBool(KeyRestoreTasks, restore)
}
