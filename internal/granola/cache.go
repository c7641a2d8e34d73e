// Package granola reads Granola's local cache snapshot and extracts typed
// values from its loosely-shaped document records.
package granola

import (
	"encoding/json"
	"log/slog"
	"os"
)

// Document is one meeting's metadata as stored in the cache. The notes and
// people fields vary in shape across Granola versions, so they are decoded
// loosely and accessed through the extraction functions in record.go.
type Document struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CreatedAt     string `json:"created_at"`
	NotesMarkdown any    `json:"notes_markdown"`
	NotesPlain    any    `json:"notes_plain"`
	Notes         any    `json:"notes"`
	People        any    `json:"people"`
}

// Entry is a single transcript segment.
type Entry struct {
	Text           any    `json:"text"`
	StartTimestamp string `json:"start_timestamp"`
	EndTimestamp   string `json:"end_timestamp"`
}

// Cache holds the decoded state of a snapshot.
type Cache struct {
	Documents   map[string]Document
	Transcripts map[string][]Entry
	Events      []json.RawMessage
}

type snapshotFile struct {
	Cache string `json:"cache"`
}

type snapshotState struct {
	State struct {
		Documents   map[string]Document `json:"documents"`
		Transcripts map[string][]Entry  `json:"transcripts"`
		Events      []json.RawMessage   `json:"events"`
	} `json:"state"`
}

// Load reads and decodes the cache snapshot at path. The snapshot is a JSON
// document whose "cache" field holds a second JSON-encoded document. Missing
// or malformed input degrades to empty mappings and is logged, never
// returned as an error.
func Load(path string, logger *slog.Logger) *Cache {
	empty := &Cache{
		Documents:   map[string]Document{},
		Transcripts: map[string][]Entry{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("granola cache not found", slog.String("path", path), slog.String("error", err.Error()))
		return empty
	}

	var outer snapshotFile
	if err := json.Unmarshal(data, &outer); err != nil {
		logger.Error("failed to parse granola cache", slog.String("error", err.Error()))
		return empty
	}

	var inner snapshotState
	if err := json.Unmarshal([]byte(outer.Cache), &inner); err != nil {
		logger.Error("failed to parse granola cache state", slog.String("error", err.Error()))
		return empty
	}

	c := &Cache{
		Documents:   inner.State.Documents,
		Transcripts: inner.State.Transcripts,
		Events:      inner.State.Events,
	}
	if c.Documents == nil {
		c.Documents = map[string]Document{}
	}
	if c.Transcripts == nil {
		c.Transcripts = map[string][]Entry{}
	}
	return c
}
