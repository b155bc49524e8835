// Package index provides SQLite-backed outline indexing with optional FTS5
// full-text search.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	path       TEXT PRIMARY KEY,
	checksum   TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS headings (
	path      TEXT NOT NULL,
	position  INTEGER NOT NULL,
	level     INTEGER NOT NULL,
	title     TEXT NOT NULL DEFAULT '',
	todo      TEXT NOT NULL DEFAULT '',
	done      INTEGER NOT NULL DEFAULT 0,
	priority  TEXT NOT NULL DEFAULT '',
	tags      TEXT NOT NULL DEFAULT '[]',
	scheduled TEXT NOT NULL DEFAULT '',
	deadline  TEXT NOT NULL DEFAULT '',
	closed    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (path, position)
);

CREATE INDEX IF NOT EXISTS idx_headings_scheduled ON headings(scheduled) WHERE scheduled != '';
CREATE INDEX IF NOT EXISTS idx_headings_deadline  ON headings(deadline)  WHERE deadline != '';
CREATE INDEX IF NOT EXISTS idx_headings_todo      ON headings(todo)      WHERE todo != '';

CREATE TABLE IF NOT EXISTS clocks (
	path     TEXT NOT NULL,
	position INTEGER NOT NULL,
	start    TEXT NOT NULL,
	end      TEXT NOT NULL DEFAULT '',
	minutes  INTEGER NOT NULL DEFAULT 0,
	open     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_clocks_path ON clocks(path);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
