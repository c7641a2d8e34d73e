// Package syncservice coordinates the sync and transcript operations
// shared by the REST API and the MCP server.
package syncservice

import (
	"context"
	"log/slog"
	"path"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/frontmatter"
	"github.com/starford/ansuz/internal/granola"
	"github.com/starford/ansuz/internal/process"
	"github.com/starford/ansuz/internal/syncer"
	"github.com/starford/ansuz/internal/vault"
)

// TranscriptInfo is the metadata summary of one transcript file.
type TranscriptInfo struct {
	Filename        string   `json:"filename"`
	Title           string   `json:"title"`
	Date            string   `json:"date"`
	DurationMinutes int      `json:"duration_minutes"`
	Processed       bool     `json:"processed"`
	Attendees       []string `json:"attendees"`
}

// TranscriptDetail is the full content of one transcript file.
type TranscriptDetail struct {
	Filename    string         `json:"filename"`
	Frontmatter map[string]any `json:"frontmatter"`
	Content     string         `json:"content"`
}

// CacheInfo describes the Granola cache snapshot.
type CacheInfo struct {
	CachePath        string `json:"cache_path"`
	DocumentsCount   int    `json:"documents_count"`
	TranscriptsCount int    `json:"transcripts_count"`
	HasEvents        bool   `json:"has_events"`
}

// Service coordinates vault and cache operations.
type Service struct {
	store     vault.Provider
	syncer    *syncer.Syncer
	folder    string
	cachePath string
	logger    *slog.Logger
}

// New creates a Service. folder is the transcripts folder, vault-relative.
func New(store vault.Provider, s *syncer.Syncer, folder, cachePath string, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		syncer:    s,
		folder:    folder,
		cachePath: cachePath,
		logger:    logger,
	}
}

// Sync runs one import pass over the Granola cache.
func (s *Service) Sync(ctx context.Context) (syncer.Stats, error) {
	return s.syncer.Sync(ctx)
}

// ListUnprocessed returns metadata for every unprocessed transcript,
// optionally restricted to those older than the given number of hours.
func (s *Service) ListUnprocessed(olderThanHours int) ([]TranscriptInfo, error) {
	paths, err := process.ListUnprocessed(s.store, s.folder, time.Duration(olderThanHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	out := make([]TranscriptInfo, 0, len(paths))
	for _, p := range paths {
		data, err := s.store.Read(p)
		if err != nil {
			s.logger.Warn("read transcript failed", slog.String("path", p), slog.Any("error", err))
			continue
		}
		fields, _ := frontmatter.Parse(string(data))

		attendees := fields.GetStringList("attendees")
		if attendees == nil {
			attendees = []string{}
		}
		out = append(out, TranscriptInfo{
			Filename:        path.Base(p),
			Title:           fields.GetString("title"),
			Date:            fields.GetString("date"),
			DurationMinutes: fields.GetInt("duration_minutes"),
			Processed:       fields.GetBool("processed"),
			Attendees:       attendees,
		})
	}
	return out, nil
}

// GetTranscript returns the parsed content of a transcript by filename.
func (s *Service) GetTranscript(filename string) (*TranscriptDetail, error) {
	p := path.Join(s.folder, filename)
	if !s.store.Exists(p) {
		return nil, apperr.ErrNotFound
	}
	data, err := s.store.Read(p)
	if err != nil {
		return nil, err
	}

	fields, body := frontmatter.Parse(string(data))
	fm := make(map[string]any, fields.Len())
	for _, key := range fields.Keys() {
		v, _ := fields.Get(key)
		fm[key] = v
	}

	return &TranscriptDetail{
		Filename:    filename,
		Frontmatter: fm,
		Content:     body,
	}, nil
}

// CacheInfo loads the cache snapshot and reports its shape.
func (s *Service) CacheInfo() CacheInfo {
	cache := granola.Load(s.cachePath, s.logger)
	return CacheInfo{
		CachePath:        s.cachePath,
		DocumentsCount:   len(cache.Documents),
		TranscriptsCount: len(cache.Transcripts),
		HasEvents:        len(cache.Events) > 0,
	}
}
