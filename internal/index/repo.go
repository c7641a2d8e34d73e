package index

import (
	"fmt"
	"time"
)

// Row represents one cataloged transcript.
type Row struct {
	Path            string
	GranolaID       string
	Title           string
	Date            string
	DurationMinutes int
	Processed       bool
	Checksum        string
	UpdatedAt       time.Time
}

// Stats summarizes the catalog.
type Stats struct {
	Total       int `json:"total"`
	Processed   int `json:"processed"`
	Unprocessed int `json:"unprocessed"`
}

// Upsert inserts or replaces a transcript row.
func (db *DB) Upsert(row Row) error {
	_, err := db.conn.Exec(`
		INSERT INTO transcripts (path, granola_id, title, date, duration_minutes, processed, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			granola_id       = excluded.granola_id,
			title            = excluded.title,
			date             = excluded.date,
			duration_minutes = excluded.duration_minutes,
			processed        = excluded.processed,
			checksum         = excluded.checksum,
			updated_at       = excluded.updated_at
	`, row.Path, row.GranolaID, row.Title, row.Date, row.DurationMinutes, row.Processed, row.Checksum, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert: %w", err)
	}
	return nil
}

// Delete removes a transcript row.
func (db *DB) Delete(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM transcripts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete: %w", err)
	}
	return nil
}

// Get returns one transcript row, or nil when the path is not cataloged.
func (db *DB) Get(path string) (*Row, error) {
	var row Row
	err := db.conn.QueryRow(`
		SELECT path, granola_id, title, date, duration_minutes, processed, checksum, updated_at
		FROM transcripts WHERE path = ?
	`, path).Scan(&row.Path, &row.GranolaID, &row.Title, &row.Date,
		&row.DurationMinutes, &row.Processed, &row.Checksum, &row.UpdatedAt)
	if err != nil {
		return nil, nil // not found is fine
	}
	return &row, nil
}

// ListUnprocessed returns rows with processed = false, oldest date first.
func (db *DB) ListUnprocessed() ([]Row, error) {
	rows, err := db.conn.Query(`
		SELECT path, granola_id, title, date, duration_minutes, processed, checksum, updated_at
		FROM transcripts WHERE processed = 0 ORDER BY date, path
	`)
	if err != nil {
		return nil, fmt.Errorf("index: list unprocessed: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Path, &row.GranolaID, &row.Title, &row.Date,
			&row.DurationMinutes, &row.Processed, &row.Checksum, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// AllChecksums returns path → checksum for every cataloged transcript.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM transcripts`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Stats returns catalog totals.
func (db *DB) Stats() (Stats, error) {
	var s Stats
	err := db.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(processed), 0),
		       COUNT(*) - COALESCE(SUM(processed), 0)
		FROM transcripts
	`).Scan(&s.Total, &s.Processed, &s.Unprocessed)
	if err != nil {
		return Stats{}, fmt.Errorf("index: stats: %w", err)
	}
	return s, nil
}
