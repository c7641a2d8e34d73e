package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/syncservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, receives sync events and serves GET /events.
func NewRouter(svc *syncservice.Service, catalog index.Catalog, authEnabled bool, token string, broker *sse.Broker) chi.Router {
	h := NewHandler(svc, catalog, broker)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Post("/sync", h.Sync)

	// The unprocessed listing must be registered before the wildcard route
	// so chi does not treat "unprocessed" as a filename.
	r.Get("/transcripts/unprocessed", h.ListUnprocessed)
	r.Get("/transcripts/*", h.GetTranscript)

	r.Get("/cache/stats", h.CacheStats)
	r.Get("/stats", h.CatalogStats)

	// SSE endpoint (protected by same auth middleware).
	if broker != nil {
		r.Get("/events", broker.ServeHTTP)
	}

	return r
}
