// Package syncer drives the one-way import from a Granola cache snapshot
// into the vault. Each run is idempotent: records already imported are
// skipped and day documents are merged, never rewritten.
package syncer

import (
	"context"
	"log/slog"
	"sort"

	"github.com/starford/ansuz/internal/daily"
	"github.com/starford/ansuz/internal/granola"
	"github.com/starford/ansuz/internal/transcript"
)

// Stats summarizes one sync run.
type Stats struct {
	TranscriptsCreated int `json:"transcripts_created"`
	TranscriptsSkipped int `json:"transcripts_skipped"`
	DailyEntriesAdded  int `json:"daily_entries_added"`
	Errors             int `json:"errors"`
}

// Syncer imports transcript records from the cache snapshot at cachePath.
type Syncer struct {
	cachePath string
	assembler *transcript.Assembler
	daily     *daily.Aggregator
	logger    *slog.Logger
}

// New returns a Syncer reading the cache snapshot at cachePath.
func New(cachePath string, assembler *transcript.Assembler, aggregator *daily.Aggregator, logger *slog.Logger) *Syncer {
	return &Syncer{
		cachePath: cachePath,
		assembler: assembler,
		daily:     aggregator,
		logger:    logger,
	}
}

// Sync imports every transcript record in the cache. A record failure is
// counted and logged but never stops the batch. The context is checked
// between records.
func (s *Syncer) Sync(ctx context.Context) (Stats, error) {
	var stats Stats

	cache := granola.Load(s.cachePath, s.logger)
	s.logger.Info("starting sync",
		slog.Int("documents", len(cache.Documents)),
		slog.Int("transcripts", len(cache.Transcripts)))

	ids := make([]string, 0, len(cache.Transcripts))
	for id := range cache.Transcripts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, docID := range ids {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		entries := cache.Transcripts[docID]
		if len(entries) == 0 {
			continue
		}
		doc, ok := cache.Documents[docID]
		if !ok {
			s.logger.Warn("transcript without document", slog.String("doc_id", docID))
			continue
		}

		path, created, err := s.assembler.Assemble(docID, doc, entries)
		if err != nil {
			s.logger.Error("sync record failed",
				slog.String("doc_id", docID), slog.Any("error", err))
			stats.Errors++
			continue
		}
		if !created {
			stats.TranscriptsSkipped++
			continue
		}
		stats.TranscriptsCreated++

		added, err := s.daily.AddMeeting(
			granola.MeetingTime(entries, doc),
			granola.Title(doc),
			dailyNotes(doc),
			path,
		)
		if err != nil {
			s.logger.Error("daily merge failed",
				slog.String("doc_id", docID), slog.Any("error", err))
			stats.Errors++
			continue
		}
		if added {
			stats.DailyEntriesAdded++
		}
	}

	s.logger.Info("sync complete",
		slog.Int("created", stats.TranscriptsCreated),
		slog.Int("skipped", stats.TranscriptsSkipped),
		slog.Int("daily_entries", stats.DailyEntriesAdded),
		slog.Int("errors", stats.Errors))
	return stats, nil
}

// dailyNotes picks the summary shown in the day document. Unlike the
// transcript body it never falls back to the raw notes field, which holds
// structured editor state rather than text.
func dailyNotes(doc granola.Document) string {
	if s, ok := doc.NotesMarkdown.(string); ok && s != "" {
		return s
	}
	if s, ok := doc.NotesPlain.(string); ok && s != "" {
		return s
	}
	return ""
}
