package playlist

// Package playlist maintains the persisted per-directory position state for
// playlist downloads and renders the matching .m3u file. The rendered file
// is rewritten from scratch on every change; playlist sizes are modest and
// a full rewrite is simpler and safer than incremental patching.
