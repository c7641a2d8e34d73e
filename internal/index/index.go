// Package index maintains a SQLite catalog of synced transcripts. The
// vault files stay authoritative: the catalog is advisory metadata that can
// be rebuilt from disk at any time.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transcripts (
	path             TEXT PRIMARY KEY,
	granola_id       TEXT NOT NULL DEFAULT '',
	title            TEXT NOT NULL DEFAULT '',
	date             TEXT NOT NULL DEFAULT '',
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	processed        INTEGER NOT NULL DEFAULT 0,
	checksum         TEXT NOT NULL DEFAULT '',
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transcripts_processed ON transcripts(processed);
CREATE INDEX IF NOT EXISTS idx_transcripts_granola ON transcripts(granola_id);
`

// Catalog defines the transcript catalog operations. Consumers should
// depend on this interface rather than the concrete *DB type to facilitate
// testing with mocks.
type Catalog interface {
	Upsert(row Row) error
	Delete(path string) error
	Get(path string) (*Row, error)
	ListUnprocessed() ([]Row, error)
	AllChecksums() (map[string]string, error)
	Stats() (Stats, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)

// DB wraps a sql.DB with catalog-specific operations.
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
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
