package provider

import "context"

// Provider is the external extraction/transcode capability as seen by the
// core: one blocking Run per task invocation, reporting through the event
// sink. Implementations must deliver events in emission order and must
// return ErrAborted when ctx is canceled.
type Provider interface {
	Run(ctx context.Context, url string, cfg Config, sink EventSink) error
}

var _ Provider = (*YTDLP)(nil)
