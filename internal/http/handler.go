package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/davidbz/lumen/internal/config"
	"github.com/davidbz/lumen/internal/domain"
	"github.com/davidbz/lumen/internal/observability"
)

const (
	// maxBodyBytes bounds the search request body.
	maxBodyBytes = 100 << 10

	healthPingTimeout = time.Second

	headerCache = "X-Cache"
)

// searchRequest is decoded loosely so the validator can report type errors.
type searchRequest struct {
	Query any `json:"query"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Cache     string `json:"cache"`
}

// Handler handles HTTP requests.
type Handler struct {
	search *domain.SearchService
	cache  *domain.ResultCache
	app    *config.AppConfig
	now    func() time.Time
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(search *domain.SearchService, cache *domain.ResultCache, app *config.AppConfig) *Handler {
	return &Handler{
		search: search,
		cache:  cache,
		app:    app,
		now:    time.Now,
	}
}

// HandleSearch processes search requests.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	var req searchRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("invalid request body", observability.Error(err))
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Error: msgValidation,
			Details: []domain.FieldError{{
				Type:     "body",
				Msg:      "Invalid JSON body",
				Location: "body",
			}},
		})
		return
	}

	outcome, err := h.search.Search(ctx, req.Query)
	if err != nil {
		h.writeSearchError(ctx, w, err)
		return
	}

	if outcome.CacheHit {
		w.Header().Set(headerCache, "HIT")
	} else {
		w.Header().Set(headerCache, "MISS")
	}

	writeJSON(ctx, w, http.StatusOK, outcome.Result)
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheStatus := "disabled"
	if h.cache.Enabled() {
		pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
		defer cancel()

		cacheStatus = "ok"
		if err := h.cache.Ping(pingCtx); err != nil {
			observability.FromContext(ctx).Warn("cache health check failed", observability.Error(err))
			cacheStatus = "unavailable"
		}
	}

	writeJSON(ctx, w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(domain.TimestampLayout),
		Version:   h.app.Version,
		Cache:     cacheStatus,
	})
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	observability.FromContext(ctx).Warn("route not found", observability.String("path", r.URL.Path))
	writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: "Not Found"})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Already written status, can't change it, just log.
		observability.FromContext(ctx).Error("failed to encode response", observability.Error(err))
	}
}
