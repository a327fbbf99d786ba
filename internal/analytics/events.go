// Package analytics tracks what shoppers search for. A batching collector
// publishes query events to Kafka, and an aggregator consumes them into
// in-memory counters (top queries, zero-result queries) for the
// /api/v1/analytics endpoint.
package analytics

import "time"

// EventType distinguishes the kinds of search activity tracked.
type EventType string

const (
	EventSearch     EventType = "search"
	EventSuggest    EventType = "suggest"
	EventZeroResult EventType = "zero_result"
)

// SearchEvent is the Kafka payload describing one served query.
type SearchEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	TotalHits int       `json:"total_hits"`
	Returned  int       `json:"returned"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}
