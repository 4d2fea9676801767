package platform

// Package platform contains OS/platform integration and external tooling
// glue: binary capability probes, filesystem helpers, free-space checks,
// playlist URL detection, and the flat playlist pre-flight listing.
