package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Desktop open commands
const (
	openCommand     = "open"     // macOS
	explorerCommand = "explorer" // Windows
	xdgOpenCommand  = "xdg-open" // Linux
)

// Fallback Linux file managers when xdg-open is unavailable.
var linuxFileManagers = []string{"nautilus", "dolphin", "thunar", "pcmanfm"}

// RevealFile opens the system file manager at the file's location,
// highlighting it where the platform supports that.
func RevealFile(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command(openCommand, "-R", absPath).Run()
	case "windows":
		return exec.Command(explorerCommand, "/select,", absPath).Run()
	case "linux":
		// File selection is not standardized on Linux; open the parent dir.
		dir := filepath.Dir(absPath)
		if err := exec.Command(xdgOpenCommand, dir).Run(); err == nil {
			return nil
		}
		for _, fm := range linuxFileManagers {
			if _, err := exec.LookPath(fm); err == nil {
				return exec.Command(fm, dir).Run()
			}
		}
		return fmt.Errorf("no suitable file manager found")
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// OpenFile opens the file with the default system application.
func OpenFile(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command(openCommand, absPath).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", absPath).Run()
	case "linux":
		return exec.Command(xdgOpenCommand, absPath).Run()
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}
