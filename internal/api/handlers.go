package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/syncservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc     *syncservice.Service
	catalog index.Catalog
	broker  *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil.
func NewHandler(svc *syncservice.Service, catalog index.Catalog, broker *sse.Broker) *Handler {
	return &Handler{svc: svc, catalog: catalog, broker: broker}
}

// transcriptFilename extracts the filename from the URL (everything after
// /api/transcripts/). Supports encoded spaces and slashes from clients.
func transcriptFilename(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Sync handles POST /api/sync.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Sync(r.Context())
	if err != nil {
		slog.Error("sync failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("sync failed"))
		return
	}
	if h.broker != nil {
		h.broker.Publish(sse.Event{Type: "sync.completed", Data: stats})
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListUnprocessed handles GET /api/transcripts/unprocessed.
func (h *Handler) ListUnprocessed(w http.ResponseWriter, r *http.Request) {
	hours, _ := strconv.Atoi(r.URL.Query().Get("older_than_hours"))

	items, err := h.svc.ListUnprocessed(hours)
	if err != nil {
		slog.Error("list unprocessed failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, UnprocessedResponse{
		Count:          len(items),
		OlderThanHours: hours,
		Transcripts:    items,
	})
}

// GetTranscript handles GET /api/transcripts/*.
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	filename := transcriptFilename(r)
	if filename == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("filename is required"))
		return
	}
	detail, err := h.svc.GetTranscript(filename)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get transcript failed", slog.String("filename", filename), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// CacheStats handles GET /api/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.CacheInfo())
}

// CatalogStats handles GET /api/stats.
func (h *Handler) CatalogStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Stats()
	if err != nil {
		slog.Error("catalog stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
