// Package server exposes the search engine over HTTP: search, suggest,
// stats, the admin reindex endpoint, and cache management.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mobimart/search-service/internal/analytics"
	"github.com/mobimart/search-service/internal/cache"
	"github.com/mobimart/search-service/internal/search"
	"github.com/mobimart/search-service/pkg/config"
	apperrors "github.com/mobimart/search-service/pkg/errors"
	"github.com/mobimart/search-service/pkg/logger"
	"github.com/mobimart/search-service/pkg/metrics"
)

// Rebuilder triggers an index rebuild; implemented by the rebuild scheduler.
type Rebuilder interface {
	RebuildNow(ctx context.Context) (int, error)
}

// Handler holds the HTTP endpoints of the search service.
type Handler struct {
	engine    *search.Engine
	cache     *cache.QueryCache // nil when Redis is unavailable
	rebuilder Rebuilder
	collector *analytics.Collector // nil when Kafka is unavailable
	metrics   *metrics.Metrics     // nil in tests
	cfg       config.SearchConfig
	logger    *slog.Logger
}

// New creates a Handler. cache, collector, and m may be nil; the endpoints
// degrade accordingly.
func New(engine *search.Engine, queryCache *cache.QueryCache, rebuilder Rebuilder, collector *analytics.Collector, m *metrics.Metrics, cfg config.SearchConfig) *Handler {
	return &Handler{
		engine:    engine,
		cache:     queryCache,
		rebuilder: rebuilder,
		collector: collector,
		metrics:   m,
		cfg:       cfg,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /api/v1/search?q=...&limit=N. An empty query is a
// valid request answered with an empty result set, and a malformed limit is
// clamped rather than rejected.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	limit := h.parseLimit(r, h.cfg.DefaultLimit, h.cfg.MaxResults)

	var result *search.Result
	cacheHit := false
	if h.cache != nil {
		var err error
		result, cacheHit, err = h.cache.GetOrCompute(ctx, query, limit, func() (*search.Result, error) {
			return h.engine.Search(query, limit), nil
		})
		if err != nil {
			log.Error("search failed", "query", query, "error", err)
			h.writeError(w, http.StatusInternalServerError, "search failed")
			return
		}
	} else {
		result = h.engine.Search(query, limit)
	}

	latency := time.Since(start)
	h.recordSearch(ctx, query, result, cacheHit, latency)
	log.Info("search completed",
		"query", query,
		"total_hits", result.TotalHits,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)
	h.writeJSON(w, http.StatusOK, result)
}

// Suggest handles GET /api/v1/suggest?q=...&limit=N.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := h.parseLimit(r, h.cfg.SuggestLimit, h.cfg.SuggestMaxLimit)

	suggestions := h.engine.Suggest(query, limit)
	if h.metrics != nil {
		h.metrics.SuggestQueriesTotal.Inc()
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"query":       query,
		"suggestions": suggestions,
	})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.engine.Stats())
}

// Reindex handles POST /api/v1/admin/reindex. A failed rebuild reports its
// cause while the previous index keeps serving.
func (h *Handler) Reindex(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	count, err := h.rebuilder.RebuildNow(r.Context())
	if err != nil {
		log.Error("reindex failed", "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), fmt.Sprintf("reindex failed: %v", err))
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "rebuilt",
		"documents": count,
	})
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

// parseLimit reads the limit query parameter, falling back to def and
// clamping into [1, max]. Malformed values are corrected, not rejected.
func (h *Handler) parseLimit(r *http.Request, def, max int) int {
	limit := def
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit
}

func (h *Handler) recordSearch(ctx context.Context, query string, result *search.Result, cacheHit bool, latency time.Duration) {
	if h.metrics != nil {
		outcome := "hit"
		switch {
		case result.TotalHits == 0 && query == "":
			outcome = "empty_query"
		case result.TotalHits == 0:
			outcome = "zero_result"
		}
		h.metrics.SearchQueriesTotal.WithLabelValues(outcome).Inc()
		cacheStatus := "miss"
		if cacheHit {
			cacheStatus = "hit"
		}
		h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
		h.metrics.SearchResultsCount.Observe(float64(len(result.Results)))
		if h.cache != nil {
			if cacheHit {
				h.metrics.CacheHitsTotal.Inc()
			} else {
				h.metrics.CacheMissesTotal.Inc()
			}
		}
	}
	if h.collector != nil {
		eventType := analytics.EventSearch
		if result.TotalHits == 0 {
			eventType = analytics.EventZeroResult
		}
		h.collector.Track(analytics.SearchEvent{
			Type:      eventType,
			Query:     query,
			TotalHits: result.TotalHits,
			Returned:  len(result.Results),
			LatencyMs: latency.Milliseconds(),
			CacheHit:  cacheHit,
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestID(ctx),
		})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
