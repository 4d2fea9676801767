package provider

// Package provider defines the boundary to the external extraction and
// transcoding capability (yt-dlp plus ffmpeg). The core configures the
// provider through a typed Config, observes it through a stream of Events,
// and maps its failures into a small error taxonomy. All knowledge of
// yt-dlp's command line and message vocabulary stays inside this package.
