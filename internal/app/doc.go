// Package app is the composition root: it probes capabilities, builds the
// logger, provider, download service, and history store, and hands the
// wired context to whichever shell runs.
package app
