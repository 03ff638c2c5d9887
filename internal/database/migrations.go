package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS progress (
    name TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    updated_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS catalog_articles (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    author TEXT,
    year TEXT,
    topic TEXT,
    abstract TEXT,
    url TEXT UNIQUE NOT NULL,
    doi TEXT,
    score REAL NOT NULL DEFAULT 0,
    article_type TEXT,
    source TEXT,
    collected_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS article_fulltext (
    article_id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    content TEXT,
    fetched_at TEXT DEFAULT (datetime('now'))
);
`)
			return err
		},
	},
}

func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
