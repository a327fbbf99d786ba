package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mobimart/search-service/internal/analytics"
	"github.com/mobimart/search-service/internal/cache"
	"github.com/mobimart/search-service/internal/catalog"
	"github.com/mobimart/search-service/internal/index"
	"github.com/mobimart/search-service/internal/rebuild"
	"github.com/mobimart/search-service/internal/search"
	"github.com/mobimart/search-service/internal/server"
	"github.com/mobimart/search-service/pkg/config"
	"github.com/mobimart/search-service/pkg/health"
	"github.com/mobimart/search-service/pkg/kafka"
	"github.com/mobimart/search-service/pkg/logger"
	"github.com/mobimart/search-service/pkg/metrics"
	"github.com/mobimart/search-service/pkg/middleware"
	"github.com/mobimart/search-service/pkg/postgres"
	pkgredis "github.com/mobimart/search-service/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting catalog search service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdownMetrics(shutdownCtx)
		}()
	}

	pgClient, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to catalog database", "error", err)
		os.Exit(1)
	}
	defer pgClient.Close()
	source := catalog.NewPostgresSource(pgClient)

	store := index.NewStore()
	builder := index.NewBuilder(source, store)
	engine := search.NewEngine(store, cfg.Search.DefaultLimit)

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, search caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	rebuiltProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexRebuilt)
	defer rebuiltProducer.Close()

	opts := []rebuild.Option{rebuild.WithPublisher(rebuiltProducer)}
	if m != nil {
		opts = append(opts, rebuild.WithMetrics(m))
	}
	if queryCache != nil {
		opts = append(opts, rebuild.WithInvalidator(queryCache.Invalidate))
	}
	scheduler := rebuild.New(builder, cfg.Rebuild, opts...)

	// Initial build. The index serves empty until this completes; with
	// awaitOnStartup the process waits so the first request sees real data,
	// but a failed build still starts the server against the empty index.
	if cfg.Rebuild.AwaitOnStartup {
		if count, err := scheduler.RebuildNow(ctx); err != nil {
			slog.Error("initial index build failed, serving empty index", "error", err)
		} else {
			slog.Info("initial index built", "documents", count)
		}
	} else {
		go scheduler.RebuildNow(ctx)
	}
	go scheduler.Run(ctx)

	if m != nil {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if builtAt := store.BuiltAt(); !builtAt.IsZero() {
						m.IndexAgeSeconds.Set(time.Since(builtAt).Seconds())
					}
				}
			}
		}()
	}

	triggerConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.CatalogUpdated, scheduler.HandleTrigger)
	go func() {
		if err := triggerConsumer.Start(ctx); err != nil {
			slog.Error("catalog trigger consumer error", "error", err)
		}
	}()

	eventsProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.SearchEvents)
	defer eventsProducer.Close()
	collector := analytics.NewCollector(eventsProducer, 100, 5*time.Second)
	collector.Start(ctx)
	defer collector.Close()

	aggregator := analytics.NewAggregator(cfg.Kafka, cfg.Kafka.Topics.SearchEvents)
	go func() {
		if err := aggregator.Start(ctx); err != nil {
			slog.Error("analytics aggregator error", "error", err)
		}
	}()

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := pgClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if store.BuiltAt().IsZero() {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "index never built"}
		}
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d documents", store.Len())}
	})

	h := server.New(engine, queryCache, scheduler, collector, m, cfg.Search)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/suggest", h.Suggest)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("POST /api/v1/admin/reindex", h.Reindex)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /api/v1/analytics", aggregator.StatsHandler)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("catalog search service listening", "addr", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("catalog search service stopped")
}
