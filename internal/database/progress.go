package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dcereceda/academisearch/internal/progress"
)

// progressKey names the single progress record, mirroring the key used
// by the browser front-end's storage.
const progressKey = "progress"

// ProgressStore adapts the database to the progress.Store port, holding
// the record as a JSON blob in a single named row.
type ProgressStore struct {
	db *DB
}

// Progress returns the SQLite-backed progress store.
func (db *DB) Progress() *ProgressStore {
	return &ProgressStore{db: db}
}

// Load reads the record, or returns (nil, nil) when none was saved yet.
func (s *ProgressStore) Load() (*progress.Record, error) {
	var data string
	err := s.db.conn.QueryRow(
		"SELECT data FROM progress WHERE name = ?", progressKey,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}

	var r progress.Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("decoding progress record: %w", err)
	}
	return &r, nil
}

// Save upserts the record.
func (s *ProgressStore) Save(r *progress.Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding progress record: %w", err)
	}

	_, err = s.db.conn.Exec(
		`INSERT INTO progress (name, data, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		progressKey, string(data),
	)
	if err != nil {
		return fmt.Errorf("saving progress: %w", err)
	}
	return nil
}
