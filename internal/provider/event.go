package provider

// Status is the lifecycle point an Event reports.
type Status string

const (
	// StatusDownloading is a byte-level progress tick
	StatusDownloading Status = "downloading"

	// StatusFinished means one file finished downloading (postprocessing may follow)
	StatusFinished Status = "finished"

	// StatusError reports a per-item error message
	StatusError Status = "error"

	// StatusPostprocessor reports a postprocessing step; carries the final filepath
	StatusPostprocessor Status = "postprocessor"
)

// Info is the nested item metadata attached to an event. Zero values mean
// the provider did not report the field.
type Info struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	PlaylistIndex int    `json:"playlist_index"`
	NEntries      int    `json:"n_entries"`
	PlaylistTitle string `json:"playlist_title"`
	Filepath      string `json:"filepath"`
}

// Event is one provider lifecycle tick. Within one task invocation events
// are delivered strictly in emission order.
type Event struct {
	Status     Status
	Filename   string
	Downloaded int64
	Total      int64
	Percent    float64 // 0-100, derived when byte counts are missing
	Speed      float64 // bytes per second, 0 when unknown
	ETASec     int     // -1 when unknown
	Err        string  // set for StatusError
	Info       Info
}

// EventSink receives provider events. Sinks are called synchronously from
// the worker that drives the provider and must not block for long.
type EventSink func(Event)
