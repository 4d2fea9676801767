package download

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// archiveSuspendSuffix is appended to the archive record while its skip
// protection is suspended for a force-redownload run.
const archiveSuspendSuffix = ".suspended"

// archiveGuard suspends a directory's archive record for one run and puts
// it back afterwards, byte-identical, discarding whatever the run itself
// recorded. Restore is safe to call when nothing was suspended and must run
// even when the task aborts midway.
type archiveGuard struct {
	archivePath   string
	suspendedPath string
	moved         bool
}

// suspendArchive relocates dir's archive record out of the provider's
// sight. A missing archive is not an error; the guard just restores
// nothing.
func suspendArchive(dir string, logger *zap.Logger) *archiveGuard {
	g := &archiveGuard{
		archivePath:   filepath.Join(dir, ArchiveFileName),
		suspendedPath: filepath.Join(dir, ArchiveFileName+archiveSuspendSuffix),
	}
	if _, err := os.Stat(g.archivePath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("cannot inspect archive record", zap.String("path", g.archivePath), zap.Error(err))
		}
		return g
	}
	if err := os.Rename(g.archivePath, g.suspendedPath); err != nil {
		logger.Warn("cannot suspend archive record", zap.String("path", g.archivePath), zap.Error(err))
		return g
	}
	g.moved = true
	logger.Info("archive record suspended for forced redownload", zap.String("path", g.archivePath))
	return g
}

// restore discards the run's fresh archive record and moves the original
// back into place.
func (g *archiveGuard) restore(logger *zap.Logger) {
	if !g.moved {
		return
	}
	if err := os.Remove(g.archivePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("cannot drop temporary archive record", zap.String("path", g.archivePath), zap.Error(err))
	}
	if err := os.Rename(g.suspendedPath, g.archivePath); err != nil {
		logger.Warn("cannot restore archive record", zap.String("path", g.suspendedPath), zap.Error(err))
		return
	}
	g.moved = false
}
