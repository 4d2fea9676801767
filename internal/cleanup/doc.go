package cleanup

// Package cleanup removes partial downloads, transient thumbnails, and
// unrequested sidecar files from task output directories. Passes run on
// normal completion, on error, and on abort, with situation-dependent
// aggressiveness and recency windows.
