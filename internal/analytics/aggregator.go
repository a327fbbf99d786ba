package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mobimart/search-service/pkg/config"
	"github.com/mobimart/search-service/pkg/kafka"
)

// AggregatedStats is the point-in-time view served at /api/v1/analytics.
type AggregatedStats struct {
	TotalSearches    int64        `json:"total_searches"`
	CacheHits        int64        `json:"cache_hits"`
	CacheMisses      int64        `json:"cache_misses"`
	ZeroResultCount  int64        `json:"zero_result_count"`
	AvgLatencyMs     float64      `json:"avg_latency_ms"`
	TopQueries       []QueryCount `json:"top_queries"`
	ZeroResultTop    []QueryCount `json:"zero_result_queries"`
	QueriesPerMinute float64      `json:"queries_per_minute"`
}

// QueryCount pairs a query string with how often it was seen.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Aggregator consumes search events from Kafka and keeps running counters.
// State is in-memory only and resets with the process, matching the
// index itself.
type Aggregator struct {
	mu            sync.RWMutex
	totalSearches atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	zeroResults   atomic.Int64
	latencySumMs  atomic.Int64
	queryCounts   map[string]int64
	zeroQueries   map[string]int64
	startTime     time.Time

	consumer *kafka.Consumer
	logger   *slog.Logger
}

// NewAggregator creates an Aggregator consuming the given topic with its
// own handler.
func NewAggregator(cfg config.KafkaConfig, topic string) *Aggregator {
	a := &Aggregator{
		queryCounts: make(map[string]int64),
		zeroQueries: make(map[string]int64),
		startTime:   time.Now(),
		logger:      slog.Default().With("component", "analytics-aggregator"),
	}
	a.consumer = kafka.NewConsumer(cfg, topic, a.handleEvent)
	return a
}

// Start enters the consume loop until ctx is cancelled.
func (a *Aggregator) Start(ctx context.Context) error {
	a.logger.Info("analytics aggregator starting")
	return a.consumer.Start(ctx)
}

func (a *Aggregator) handleEvent(ctx context.Context, key []byte, value []byte) error {
	event, err := kafka.DecodeJSON[SearchEvent](value)
	if err != nil {
		a.logger.Error("failed to decode analytics event", "error", err)
		return nil
	}
	a.record(event)
	return nil
}

func (a *Aggregator) record(event SearchEvent) {
	if event.Type == EventSuggest {
		return
	}
	a.totalSearches.Add(1)
	a.latencySumMs.Add(event.LatencyMs)
	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}
	if event.TotalHits == 0 {
		a.zeroResults.Add(1)
	}

	a.mu.Lock()
	a.queryCounts[event.Query]++
	if event.TotalHits == 0 {
		a.zeroQueries[event.Query]++
	}
	a.mu.Unlock()
}

// Stats returns a consistent snapshot of the aggregated counters.
func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalSearches:   a.totalSearches.Load(),
		CacheHits:       a.cacheHits.Load(),
		CacheMisses:     a.cacheMisses.Load(),
		ZeroResultCount: a.zeroResults.Load(),
	}
	if stats.TotalSearches > 0 {
		stats.AvgLatencyMs = float64(a.latencySumMs.Load()) / float64(stats.TotalSearches)
	}
	stats.TopQueries = topN(a.queryCounts, 10)
	stats.ZeroResultTop = topN(a.zeroQueries, 10)
	if elapsed := time.Since(a.startTime).Minutes(); elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalSearches) / elapsed
	}
	return stats
}

// StatsHandler serves the aggregated counters as JSON.
func (a *Aggregator) StatsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(a.Stats()); err != nil {
		a.logger.Error("failed to write analytics response", "error", err)
	}
}

func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		result = append(result, QueryCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
