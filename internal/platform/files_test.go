package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")

	if err := CreateDirectoryIfNotExists(dir); err != nil {
		t.Fatalf("CreateDirectoryIfNotExists() error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", dir)
	}

	// Second call on an existing directory is a no-op.
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		t.Errorf("CreateDirectoryIfNotExists() on existing dir error: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	dir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("GetHomeDownloadsDir() error: %v", err)
	}
	if filepath.Base(dir) != "Downloads" {
		t.Errorf("expected path ending in Downloads, got %s", dir)
	}
}

func TestUserConfigDirCreates(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	dir, err := UserConfigDir("tubegrab-test")
	if err != nil {
		t.Skipf("user config dir unavailable: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", dir)
	}
	if filepath.Base(dir) != "tubegrab-test" {
		t.Errorf("expected path ending in tubegrab-test, got %s", dir)
	}
}

func TestIsLowOnSpaceBadPath(t *testing.T) {
	// Probe failures must not report low space.
	if IsLowOnSpace(filepath.Join(t.TempDir(), "does-not-exist")) {
		t.Error("expected probe failure to report not-low")
	}
}
