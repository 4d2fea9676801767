package history

// Package history keeps a small SQLite log of finished download runs so
// shells can show past outcomes across restarts.
