package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/daily"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/syncer"
	"github.com/starford/ansuz/internal/syncservice"
	"github.com/starford/ansuz/internal/transcript"
	"github.com/starford/ansuz/internal/vault"
)

const apiTestDoc = `---
date: 2026-01-15
title: Team Standup
source: granola
granola_id: doc1
duration_minutes: 30
entry_count: 2
processed: false
---

## Notes

some notes

---

## Transcript

hello there
`

// testEnv sets up a temp vault, cache snapshot, catalog DB, service, and
// router. authToken == "" means auth disabled.
func testEnv(t *testing.T, authToken string) (*vault.FS, http.Handler) {
	t.Helper()

	vaultDir := t.TempDir()
	store, err := vault.NewFS(vaultDir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cachePath := filepath.Join(t.TempDir(), "cache-v3.json")
	inner, _ := json.Marshal(map[string]any{"state": map[string]any{
		"documents": map[string]any{
			"doc1": map[string]any{
				"id":         "doc1",
				"title":      "Team Standup",
				"created_at": "2026-01-15T10:00:00Z",
			},
		},
		"transcripts": map[string]any{
			"doc1": []any{map[string]any{
				"text":            "Good morning everyone, welcome to the standup.",
				"start_timestamp": "2026-01-15T10:00:00Z",
			}},
		},
	}})
	outer, _ := json.Marshal(map[string]any{"cache": string(inner)})
	if err := os.WriteFile(cachePath, outer, 0o600); err != nil {
		t.Fatal(err)
	}

	dbFile, err := os.CreateTemp("", "ansuz-api-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })
	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	assembler := transcript.NewAssembler(store, "transcripts", logger)
	aggregator := daily.New(store, "daily", logger)
	s := syncer.New(cachePath, assembler, aggregator, logger)
	svc := syncservice.New(store, s, "transcripts", cachePath, logger)

	router := NewRouter(svc, db, authToken != "", authToken, nil)
	return store, router
}

func TestSync(t *testing.T) {
	store, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var stats map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats["transcripts_created"] != 1 {
		t.Errorf("stats = %v", stats)
	}
	if !store.Exists("transcripts/2026-01-15 - Team Standup.md") {
		t.Error("transcript not written")
	}
}

func TestListUnprocessed(t *testing.T) {
	store, router := testEnv(t, "")
	if err := store.Write("transcripts/2026-01-15 - Team Standup.md", []byte(apiTestDoc)); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/transcripts/unprocessed", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp UnprocessedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || len(resp.Transcripts) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	got := resp.Transcripts[0]
	if got.Filename != "2026-01-15 - Team Standup.md" || got.Title != "Team Standup" || got.Processed {
		t.Errorf("transcript = %+v", got)
	}
}

func TestGetTranscript(t *testing.T) {
	store, router := testEnv(t, "")
	if err := store.Write("transcripts/2026-01-15 - Team Standup.md", []byte(apiTestDoc)); err != nil {
		t.Fatal(err)
	}

	target := "/transcripts/" + url.PathEscape("2026-01-15 - Team Standup.md")
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var detail TranscriptDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatal(err)
	}
	if detail.Frontmatter["granola_id"] != "doc1" {
		t.Errorf("frontmatter = %v", detail.Frontmatter)
	}
}

func TestGetTranscript_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/transcripts/nope.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCacheStats(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/cache/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var info map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info["documents_count"] != float64(1) || info["transcripts_count"] != float64(1) {
		t.Errorf("info = %v", info)
	}
}

func TestCatalogStats(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAuth(t *testing.T) {
	_, router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/cache/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/cache/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/cache/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("good token: status = %d, want 200", w.Code)
	}
}
