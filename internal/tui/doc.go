// Package tui is the terminal shell: sequential downloads with a progress
// bar and plain log lines, sharing the same download service as the GUI.
package tui
