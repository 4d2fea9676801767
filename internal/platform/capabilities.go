package platform

import (
	"os/exec"
)

// External binary names
const (
	YTDLPBinary  = "yt-dlp"
	FFmpegBinary = "ffmpeg"
)

// Capabilities carries the external-binary probe results. Probed once at
// process startup and passed by reference into every task, never consulted
// through globals.
type Capabilities struct {
	YTDLPPath  string
	FFmpegPath string
}

// ProbeCapabilities locates the external binaries on PATH. Missing binaries
// leave the corresponding path empty; callers decide whether that is fatal
// (audio extraction) or a degradation (video postprocessing).
func ProbeCapabilities() Capabilities {
	var caps Capabilities
	if path, err := exec.LookPath(YTDLPBinary); err == nil {
		caps.YTDLPPath = path
	}
	if path, err := exec.LookPath(FFmpegBinary); err == nil {
		caps.FFmpegPath = path
	}
	return caps
}

// HasYTDLP reports whether the extraction binary was found.
func (c Capabilities) HasYTDLP() bool {
	return c.YTDLPPath != ""
}

// HasFFmpeg reports whether the transcode binary was found.
func (c Capabilities) HasFFmpeg() bool {
	return c.FFmpegPath != ""
}
