// Package transcript builds meeting-transcript documents in the vault:
// filename resolution, frontmatter, and prose reconstruction.
package transcript

import (
	"log/slog"
	"strings"

	"github.com/starford/ansuz/internal/frontmatter"
	"github.com/starford/ansuz/internal/granola"
	"github.com/starford/ansuz/internal/vault"
)

// NotesPlaceholder marks a Notes section awaiting AI processing. The
// processor replaces this literal string with a generated summary.
const NotesPlaceholder = "*No AI notes available - will be generated during processing*"

// Source is the frontmatter source tag for synced documents.
const Source = "granola"

// Assembler creates transcript documents from source records.
type Assembler struct {
	store  vault.Provider
	folder string
	logger *slog.Logger
}

// NewAssembler returns an Assembler writing under folder (relative to the
// vault root).
func NewAssembler(store vault.Provider, folder string, logger *slog.Logger) *Assembler {
	return &Assembler{store: store, folder: folder, logger: logger}
}

// Assemble ensures a document exists for the source record. Returns the
// vault-relative path and whether a new file was written. Existing
// documents are left untouched: creation happens exactly once per record.
func (a *Assembler) Assemble(docID string, doc granola.Document, entries []granola.Entry) (string, bool, error) {
	title := granola.Title(doc)
	meetingTime := granola.MeetingTime(entries, doc)

	path, create := Resolve(a.store, a.folder, docID, title, meetingTime)
	if !create {
		a.logger.Debug("skipping existing transcript", slog.String("path", path))
		return path, false, nil
	}

	fields := frontmatter.NewFields()
	fields.Set("date", meetingTime.Format("2006-01-02"))
	fields.Set("title", title)
	fields.Set("source", Source)
	fields.Set(IdentityKey, docID)
	fields.Set("duration_minutes", granola.Duration(entries))
	fields.Set("entry_count", len(entries))
	fields.Set("processed", false)
	if attendees := granola.Attendees(doc); len(attendees) > 0 {
		fields.Set("attendees", attendees)
	}

	notes := granola.NotesText(doc)
	if notes == "" {
		notes = NotesPlaceholder
	}

	parts := []string{
		frontmatter.Format(fields),
		"",
		"## Notes",
		"",
		notes,
		"",
		"---",
		"",
		"## Transcript",
		"",
		Prose(entries),
	}
	content := strings.Join(parts, "\n")

	if err := a.store.Write(path, []byte(content)); err != nil {
		return "", false, err
	}
	a.logger.Info("created transcript", slog.String("path", path))
	return path, true, nil
}
