// Package rebuild owns the policy around index rebuilds: when they run
// (startup, interval, catalog-updated events, admin requests), how failures
// are retried, and what happens after a successful build (cache
// invalidation, index-rebuilt event). The builder itself stays policy-free.
package rebuild

import (
	"context"
	"log/slog"
	"time"

	"github.com/mobimart/search-service/internal/index"
	"github.com/mobimart/search-service/pkg/config"
	"github.com/mobimart/search-service/pkg/kafka"
	"github.com/mobimart/search-service/pkg/metrics"
	"github.com/mobimart/search-service/pkg/resilience"
)

// TriggerEvent is the Kafka payload on the catalog-updated topic. Any
// change to phones, brands, or offers produces one.
type TriggerEvent struct {
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// RebuiltEvent is published on the index-rebuilt topic after a successful
// build, so downstream page caches can revalidate.
type RebuiltEvent struct {
	Documents  int       `json:"documents"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// Scheduler drives the Builder. All triggers funnel through RebuildNow,
// which applies the retry and circuit-breaker policy.
type Scheduler struct {
	builder    *index.Builder
	cfg        config.RebuildConfig
	breaker    *resilience.CircuitBreaker
	publisher  *kafka.Producer // index-rebuilt topic; may be nil
	invalidate func(ctx context.Context) error
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Option configures optional Scheduler collaborators.
type Option func(*Scheduler)

// WithPublisher makes the scheduler announce successful rebuilds on Kafka.
func WithPublisher(p *kafka.Producer) Option {
	return func(s *Scheduler) { s.publisher = p }
}

// WithInvalidator registers a hook run after each successful rebuild,
// typically the query cache's Invalidate.
func WithInvalidator(fn func(ctx context.Context) error) Option {
	return func(s *Scheduler) { s.invalidate = fn }
}

// WithMetrics wires Prometheus counters for rebuild outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// New creates a Scheduler over the given builder.
func New(builder *index.Builder, cfg config.RebuildConfig, opts ...Option) *Scheduler {
	s := &Scheduler{
		builder: builder,
		cfg:     cfg,
		breaker: resilience.NewCircuitBreaker("catalog-fetch", resilience.CircuitBreakerConfig{
			FailureThreshold: cfg.BreakerThreshold,
			ResetTimeout:     cfg.BreakerReset,
		}),
		logger: slog.Default().With("component", "rebuild-scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RebuildNow runs one rebuild under the retry and circuit-breaker policy
// and returns the number of indexed documents. A failure leaves the
// previous index serving; the error is reported, never fatal.
func (s *Scheduler) RebuildNow(ctx context.Context) (int, error) {
	start := time.Now()
	var count int

	err := s.breaker.Execute(func() error {
		return resilience.Retry(ctx, "index-rebuild", resilience.RetryConfig{
			MaxAttempts:  s.cfg.RetryMaxAttempts,
			InitialDelay: s.cfg.RetryInitialWait,
			MaxDelay:     s.cfg.RetryMaxWait,
		}, func() error {
			fetchCtx := ctx
			if s.cfg.FetchTimeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
				defer cancel()
			}
			n, err := s.builder.Rebuild(fetchCtx)
			if err != nil {
				return err
			}
			count = n
			return nil
		})
	})

	duration := time.Since(start)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RebuildsTotal.WithLabelValues("failure").Inc()
		}
		s.logger.Error("rebuild failed, previous index stays in service",
			"error", err,
			"duration_ms", duration.Milliseconds(),
		)
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.RebuildsTotal.WithLabelValues("success").Inc()
		s.metrics.RebuildDuration.Observe(duration.Seconds())
		s.metrics.IndexedDocuments.Set(float64(count))
		s.metrics.IndexAgeSeconds.Set(0)
	}

	if s.invalidate != nil {
		if err := s.invalidate(ctx); err != nil {
			s.logger.Error("post-rebuild cache invalidation failed", "error", err)
		}
	}
	if s.publisher != nil {
		event := kafka.Event{
			Key: "index-rebuilt",
			Value: RebuiltEvent{
				Documents:  count,
				DurationMs: duration.Milliseconds(),
				Timestamp:  time.Now().UTC(),
			},
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("publishing index-rebuilt event failed", "error", err)
		}
	}
	return count, nil
}

// Run rebuilds on the configured interval until ctx is cancelled. Interval
// failures are logged and the loop keeps going; a later tick or trigger may
// succeed.
func (s *Scheduler) Run(ctx context.Context) {
	if s.cfg.Interval <= 0 {
		s.logger.Info("periodic rebuild disabled")
		return
	}
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	s.logger.Info("periodic rebuild started", "interval", s.cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("periodic rebuild stopping")
			return
		case <-ticker.C:
			if _, err := s.RebuildNow(ctx); err != nil {
				continue
			}
		}
	}
}

// HandleTrigger is the Kafka handler for the catalog-updated topic.
func (s *Scheduler) HandleTrigger(ctx context.Context, key []byte, value []byte) error {
	event, err := kafka.DecodeJSON[TriggerEvent](value)
	if err != nil {
		s.logger.Error("failed to decode trigger event", "error", err)
		return nil
	}
	s.logger.Info("catalog update received, rebuilding", "reason", event.Reason)
	if _, err := s.RebuildNow(ctx); err != nil {
		// Already logged; do not fail the message so the consumer moves on.
		return nil
	}
	return nil
}
