package index

import (
	"log/slog"
	"time"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/frontmatter"
	"github.com/starford/ansuz/internal/vault"
)

// Resync walks the transcripts folder and brings the catalog up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the catalog
func Resync(db *DB, store vault.Provider, folder string, logger *slog.Logger) error {
	metas, err := store.List(folder)
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("resync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("resync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("resync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.Delete(p); err != nil {
				logger.Warn("resync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("resync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile extracts catalog metadata from a transcript's frontmatter and
// upserts it.
func indexFile(db *DB, path string, data []byte) error {
	fields, _ := frontmatter.Parse(string(data))

	return db.Upsert(Row{
		Path:            path,
		GranolaID:       fields.GetString("granola_id"),
		Title:           fields.GetString("title"),
		Date:            fields.GetString("date"),
		DurationMinutes: fields.GetInt("duration_minutes"),
		Processed:       fields.GetBool("processed"),
		Checksum:        checksum.Sum(data),
		UpdatedAt:       time.Now(),
	})
}
