package download

import (
	"context"

	"github.com/tubegrab/tubegrab/internal/model"
)

// PlaylistLister enumerates playlist entries without downloading anything.
// Implemented by platform.FlatLister; tests substitute fakes.
type PlaylistLister interface {
	List(ctx context.Context, url string) (*model.PlaylistListing, error)
}

// HistoryRecorder persists finished tasks. Implemented by history.Store.
type HistoryRecorder interface {
	RecordTask(task *model.DownloadTask) error
}
