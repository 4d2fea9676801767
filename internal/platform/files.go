package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// LowSpaceThresholdBytes is the free-space floor below which shells warn
// before starting a download.
const LowSpaceThresholdBytes = 500 * 1024 * 1024

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// UserConfigDir returns the per-user directory for app state (settings
// file, history database), creating it if needed.
func UserConfigDir(appName string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	dir := filepath.Join(base, appName)
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// FreeSpace returns the number of free bytes on the volume holding path.
func FreeSpace(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// IsLowOnSpace reports whether the volume holding path is below the
// warning threshold. Probe errors count as "not low"; a failed statfs must
// not block a download.
func IsLowOnSpace(path string) bool {
	free, err := FreeSpace(path)
	if err != nil {
		return false
	}
	return free < LowSpaceThresholdBytes
}
