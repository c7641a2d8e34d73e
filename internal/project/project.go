// Package project appends dated meeting summaries to project documents in
// the vault.
package project

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/ansuz/internal/splice"
	"github.com/starford/ansuz/internal/vault"
)

const (
	meetingNotesHeading = "## Meeting Notes"
	updatesHeading      = "## Updates"
)

// Updater merges meeting summaries into existing project documents. It
// never creates project files: an unknown path is reported and skipped.
type Updater struct {
	store  vault.Provider
	logger *slog.Logger
}

// New returns an Updater over the vault.
func New(store vault.Provider, logger *slog.Logger) *Updater {
	return &Updater{store: store, logger: logger}
}

// AddMeetingSummary inserts a dated entry into the project document at
// file (vault-relative). The dated heading is the dedup key: a document
// already carrying it is left unchanged. Newest entries go first, under a
// Meeting Notes section when present, else an Updates section, else a new
// Meeting Notes section appended to the document. Returns whether an entry
// was added.
func (u *Updater) AddMeetingSummary(file, date, title, summary string) (bool, error) {
	if !u.store.Exists(file) {
		u.logger.Warn("project file not found", slog.String("path", file))
		return false, nil
	}
	data, err := u.store.Read(file)
	if err != nil {
		return false, err
	}
	content := string(data)

	heading := fmt.Sprintf("### %s - %s", date, title)
	if splice.HasSection(content, heading) {
		u.logger.Debug("meeting already in project file",
			slog.String("path", file), slog.String("title", title))
		return false, nil
	}

	entry := fmt.Sprintf("\n%s\n%s\n", heading, strings.TrimSpace(summary))

	var updated string
	switch {
	case splice.HasSection(content, meetingNotesHeading):
		updated = splice.InsertAfterHeading(content, meetingNotesHeading, entry, splice.Options{AtTop: true})
	case splice.HasSection(content, updatesHeading):
		updated = splice.InsertAfterHeading(content, updatesHeading, entry, splice.Options{AtTop: true})
	default:
		updated = strings.TrimRight(content, " \t\r\n") + "\n\n" + meetingNotesHeading + "\n" + entry
	}

	if err := u.store.Write(file, []byte(updated)); err != nil {
		return false, err
	}
	u.logger.Info("added meeting summary to project",
		slog.String("path", file), slog.String("title", title))
	return true, nil
}
