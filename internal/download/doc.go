// Package download coordinates download tasks: option building, the worker
// per task, progress and outcome tracking, cooperative aborts, and the
// post-run epilogue (cleanup, playlist settlement, outcome report, history).
//
// The package depends on the provider abstraction, never on yt-dlp
// directly, so shells and tests can substitute fake providers.
package download
