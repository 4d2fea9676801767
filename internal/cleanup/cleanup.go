package cleanup

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Situation selects how aggressive a cleanup pass is.
type Situation string

const (
	// SituationGeneral is a routine pass between runs
	SituationGeneral Situation = "general"

	// SituationPostProcessing runs after a successful download
	SituationPostProcessing Situation = "post_processing"

	// SituationAbort runs when the user stopped the task
	SituationAbort Situation = "abort"

	// SituationError runs after a failed task
	SituationError Situation = "error"
)

// Recency windows. A candidate older than its window is left alone, which
// keeps cleanup from ever touching files surviving from older runs.
const (
	partialWindow        = time.Hour
	webpWindow           = 2 * time.Hour
	thumbnailAbortWindow = 10 * time.Minute

	// duplicateMtimeBucket rounds modification times when pairing
	// duplicate thumbnails produced by provider retries.
	duplicateMtimeBucket = 2 * time.Second
)

// Partial/temporary artifact suffixes left behind by interrupted downloads.
var partialSuffixes = []string{
	".part",
	".ytdl",
	".ytdl.meta",
	".temp",
	".tmp",
	".frag",
	".incomplete",
	".downloading",
}

// Format-fragment names like "title.f137.mp4" produced during DASH merges.
var fragmentNameRe = regexp.MustCompile(`\.f\d+\.\w+$`)

// Thumbnail extensions. WebP is an intermediate conversion artifact and is
// always transient; JPEG/PNG are transient only until confirmed embedded.
var (
	convertedThumbExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	mediaExts          = map[string]bool{
		".mp3": true, ".m4a": true, ".flac": true, ".ogg": true, ".wav": true,
		".mp4": true, ".mkv": true, ".webm": true,
	}
)

// RemovedFile records one deleted path and its size.
type RemovedFile struct {
	Path string
	Size int64
}

// Result summarizes one cleanup pass.
type Result struct {
	CleanedCount int
	CleanedFiles []RemovedFile
}

// Policy carries per-task inputs into a cleanup pass: files the tracker saw
// actively downloading, and which sidecars the user actually asked for.
type Policy struct {
	ActivePaths     []string
	KeepInfoJSON    bool
	KeepDescription bool
	KeepSubtitles   bool
}

// Cleaner removes partial and transient artifacts from an output directory.
// It never returns an error: individual deletion failures are logged and
// skipped.
type Cleaner struct {
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Cleaner.
func New(logger *zap.Logger) *Cleaner {
	return &Cleaner{logger: logger, now: time.Now}
}

// Run collects and removes cleanup candidates under dir for the given
// situation. A path is deleted at most once per pass.
func (c *Cleaner) Run(dir string, situation Situation, policy Policy) Result {
	candidates := c.Collect(dir, situation, policy)
	return c.remove(candidates)
}

// Collect gathers the candidate set without deleting anything.
func (c *Cleaner) Collect(dir string, situation Situation, policy Policy) map[string]struct{} {
	candidates := make(map[string]struct{})
	if dir == "" {
		return candidates
	}
	if _, err := os.Stat(dir); err != nil {
		return candidates
	}

	for _, p := range policy.ActivePaths {
		if abs, err := filepath.Abs(p); err == nil {
			candidates[abs] = struct{}{}
		}
	}

	now := c.now()
	var thumbs []string

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		age := now.Sub(info.ModTime())
		name := strings.ToLower(d.Name())
		ext := filepath.Ext(name)

		switch {
		case isPartialArtifact(name):
			if age < partialWindow {
				candidates[path] = struct{}{}
			}
		case ext == ".webp":
			if age < webpWindow {
				candidates[path] = struct{}{}
			}
		case convertedThumbExts[ext]:
			thumbs = append(thumbs, path)
			switch situation {
			case SituationAbort, SituationError:
				// Not confirmed embedded: remove aggressively.
				if age < thumbnailAbortWindow {
					candidates[path] = struct{}{}
				}
			case SituationPostProcessing:
				if c.thumbnailEmbedded(path, info.ModTime()) {
					candidates[path] = struct{}{}
				}
			}
		default:
			c.collectSidecar(path, name, policy, candidates)
		}
		return nil
	})
	if walkErr != nil {
		c.logger.Warn("cleanup scan failed", zap.String("dir", dir), zap.Error(walkErr))
	}

	for _, dup := range duplicateThumbnails(thumbs) {
		candidates[dup] = struct{}{}
	}
	return candidates
}

// remove deletes every candidate, logging failures and continuing.
func (c *Cleaner) remove(candidates map[string]struct{}) Result {
	var res Result
	for path := range candidates {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			c.logger.Warn("failed to clean up file", zap.String("path", path), zap.Error(err))
			continue
		}
		res.CleanedCount++
		res.CleanedFiles = append(res.CleanedFiles, RemovedFile{Path: path, Size: info.Size()})
	}
	return res
}

// collectSidecar marks auxiliary files whose "write this sidecar" option
// was not requested. Guards against stale artifacts from a previous run
// with different settings.
func (c *Cleaner) collectSidecar(path, lowerName string, policy Policy, candidates map[string]struct{}) {
	switch {
	case strings.HasSuffix(lowerName, ".info.json"):
		if !policy.KeepInfoJSON {
			candidates[path] = struct{}{}
		}
	case strings.HasSuffix(lowerName, ".description"):
		if !policy.KeepDescription {
			candidates[path] = struct{}{}
		}
	case strings.HasSuffix(lowerName, ".srt"), strings.HasSuffix(lowerName, ".vtt"):
		if !policy.KeepSubtitles {
			candidates[path] = struct{}{}
		}
	}
}

// thumbnailEmbedded reports whether a finished media file sharing the
// thumbnail's stem is newer than the thumbnail, implying the embed step
// already consumed it.
func (c *Cleaner) thumbnailEmbedded(thumbPath string, thumbMtime time.Time) bool {
	stem := strings.TrimSuffix(thumbPath, filepath.Ext(thumbPath))
	for ext := range mediaExts {
		info, err := os.Stat(stem + ext)
		if err != nil {
			continue
		}
		if info.ModTime().After(thumbMtime) {
			return true
		}
	}
	return false
}

// isPartialArtifact reports whether a file name matches the partial,
// fragment, or temp patterns.
func isPartialArtifact(lowerName string) bool {
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(lowerName, suffix) {
			return true
		}
	}
	if strings.Contains(lowerName, ".temp.") || strings.Contains(lowerName, ".fragment") {
		return true
	}
	return fragmentNameRe.MatchString(lowerName)
}

// duplicateThumbnails pairs thumbnails by (size, rounded mtime) and returns
// the newer file of each pair. Provider retries can emit byte-identical
// thumbnails under different extensions.
func duplicateThumbnails(paths []string) []string {
	type key struct {
		size  int64
		mtime int64
	}
	seen := make(map[key]string)
	var dups []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		k := key{size: info.Size(), mtime: info.ModTime().Round(duplicateMtimeBucket).Unix()}
		prev, ok := seen[k]
		if !ok {
			seen[k] = path
			continue
		}
		prevInfo, err := os.Stat(prev)
		if err != nil {
			seen[k] = path
			continue
		}
		// Keep the older of the pair.
		if info.ModTime().After(prevInfo.ModTime()) {
			dups = append(dups, path)
		} else {
			dups = append(dups, prev)
			seen[k] = path
		}
	}
	return dups
}
