package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tubegrab/tubegrab/internal/model"
)

// DBFileName is the history database file inside the app config directory.
const DBFileName = "history.db"

// Record is one finished task run.
type Record struct {
	ID         string
	URL        string
	Mode       string
	Playlist   bool
	Outcome    string
	Downloaded int
	Failed     int
	Skipped    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store persists finished-run records in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database in dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// WAL and a busy timeout keep the GUI responsive when a task goroutine
	// writes while the shell reads.
	if _, err := db.Exec(`
		PRAGMA busy_timeout = 5000;
		PRAGMA journal_mode = WAL;
	`); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initTable(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		mode TEXT NOT NULL,
		playlist INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		downloaded INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		started_at DATETIME,
		finished_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs(finished_at);
	`
	_, err := s.db.Exec(query)
	return err
}

// Add inserts one finished-run record.
func (s *Store) Add(rec Record) error {
	query := `INSERT INTO runs
		(id, url, mode, playlist, outcome, downloaded, failed, skipped, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.Exec(query,
		rec.ID, rec.URL, rec.Mode, boolToInt(rec.Playlist), rec.Outcome,
		rec.Downloaded, rec.Failed, rec.Skipped, rec.StartedAt, rec.FinishedAt)
	return err
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, url, mode, playlist, outcome, downloaded, failed, skipped, started_at, finished_at
		FROM runs ORDER BY finished_at DESC LIMIT ?`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var playlist int
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Mode, &playlist, &rec.Outcome,
			&rec.Downloaded, &rec.Failed, &rec.Skipped, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, err
		}
		rec.Playlist = playlist != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RecordTask persists one finished task snapshot.
func (s *Store) RecordTask(task *model.DownloadTask) error {
	return s.Add(FromTask(task))
}

// FromTask builds a Record from a finished task snapshot.
func FromTask(task *model.DownloadTask) Record {
	return Record{
		ID:         task.ID,
		URL:        task.URL,
		Mode:       task.Mode.String(),
		Playlist:   task.Playlist,
		Outcome:    task.Status.String(),
		Downloaded: task.Summary.Downloaded,
		Failed:     task.Summary.Failed,
		Skipped:    task.Summary.Skipped,
		StartedAt:  task.StartedAt,
		FinishedAt: task.FinishedAt,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
