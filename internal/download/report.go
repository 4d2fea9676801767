package download

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tubegrab/tubegrab/internal/model"
)

// Report file naming
const (
	reportFilePrefix    = "download_report_"
	reportTimestampForm = "20060102_150405"
)

// WriteReport writes the dated plain-text outcome report into dir. Nothing
// is written when both lists are empty; the returned path is "" in that
// case.
func WriteReport(dir string, failed []model.FailedItem, skipped []model.SkippedItem, now time.Time) (string, error) {
	if len(failed) == 0 && len(skipped) == 0 {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Download report — %s\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("=", 40) + "\n")

	if len(failed) > 0 {
		fmt.Fprintf(&b, "\nFailed (%d):\n", len(failed))
		for i, item := range failed {
			title := item.Title
			if title == "" {
				title = "(unknown title)"
			}
			fmt.Fprintf(&b, "%d. %s\n   URL: %s\n   Error: %s\n", i+1, title, item.URL, item.Error)
		}
	}

	if len(skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped (%d):\n", len(skipped))
		for i, item := range skipped {
			title := item.Title
			if title == "" {
				title = "(unknown title)"
			}
			fmt.Fprintf(&b, "%d. %s — %s\n", i+1, title, item.Reason)
		}
	}

	path := filepath.Join(dir, reportFilePrefix+now.Format(reportTimestampForm)+".txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", err
	}
	return path, nil
}
