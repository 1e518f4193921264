// Package main wires config, the eight supporting components, and the
// Pipeline Orchestrator into an HTTP service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/StephaneWamba/genai-data-insights-platform/api/handlers"
	"github.com/StephaneWamba/genai-data-insights-platform/config"
	"github.com/StephaneWamba/genai-data-insights-platform/datacontext"
	"github.com/StephaneWamba/genai-data-insights-platform/insightgen"
	"github.com/StephaneWamba/genai-data-insights-platform/intent"
	"github.com/StephaneWamba/genai-data-insights-platform/internal/cache"
	"github.com/StephaneWamba/genai-data-insights-platform/internal/database"
	"github.com/StephaneWamba/genai-data-insights-platform/internal/metrics"
	"github.com/StephaneWamba/genai-data-insights-platform/internal/server"
	"github.com/StephaneWamba/genai-data-insights-platform/internal/telemetry"
	"github.com/StephaneWamba/genai-data-insights-platform/llm"
	"github.com/StephaneWamba/genai-data-insights-platform/pipeline"
	"github.com/StephaneWamba/genai-data-insights-platform/repository"
	"github.com/StephaneWamba/genai-data-insights-platform/visualization"
	"github.com/StephaneWamba/genai-data-insights-platform/warehouse"
)

// Server owns every component's lifecycle: construction, the HTTP and
// metrics listeners, and graceful shutdown.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	telemetryProviders *telemetry.Providers
	cacheAdapter       *cache.Adapter
	warehousePool      *database.Pool
	metadataPool       *database.Pool
	metricsCollector   *metrics.Collector

	httpManager    *server.Manager
	metricsManager *server.Manager

	wg sync.WaitGroup
}

func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// Start brings up every component in dependency order and starts both
// listeners. It never fails on a missing optional dependency (cache,
// warehouse, metadata store, LLM key) — each component degrades to its
// documented fallback, per the configuration table.
func (s *Server) Start() error {
	var err error
	s.telemetryProviders, err = telemetry.Init(s.cfg.Telemetry, s.logger)
	if err != nil {
		s.logger.Warn("telemetry init failed, continuing without it", zap.Error(err))
	}

	s.metricsCollector = metrics.NewCollector("insight_engine", s.logger)

	s.cacheAdapter = cache.New(cache.Config{
		URL:                 s.cfg.Cache.URL,
		Password:            s.cfg.Cache.Password,
		DB:                  s.cfg.Cache.DB,
		PoolSize:            s.cfg.Cache.PoolSize,
		MinIdleConns:        s.cfg.Cache.MinIdleConns,
		DefaultTTL:          s.cfg.Cache.DefaultTTL,
		HealthCheckInterval: 30 * time.Second,
	}, s.metricsCollector, s.logger)

	if s.cfg.Warehouse.URL != "" {
		s.warehousePool, err = database.Connect(s.cfg.Warehouse.URL, database.PoolConfig{
			MaxOpenConns:        s.cfg.Warehouse.MaxOpenConns,
			MaxIdleConns:        s.cfg.Warehouse.MaxIdleConns,
			ConnMaxLifetime:     s.cfg.Warehouse.ConnMaxLifetime,
			HealthCheckInterval: 30 * time.Second,
		}, s.logger)
		if err != nil {
			s.logger.Warn("warehouse unavailable, queries will return empty", zap.Error(err))
			s.warehousePool = nil
		}
	}

	if s.cfg.Metadata.URL != "" {
		s.metadataPool, err = database.Connect(s.cfg.Metadata.URL, database.PoolConfig{
			MaxOpenConns:        s.cfg.Metadata.MaxOpenConns,
			MaxIdleConns:        s.cfg.Metadata.MaxIdleConns,
			ConnMaxLifetime:     s.cfg.Metadata.ConnMaxLifetime,
			HealthCheckInterval: 30 * time.Second,
		}, s.logger)
		if err != nil {
			s.logger.Warn("metadata store unavailable, questions will be kept in memory", zap.Error(err))
			s.metadataPool = nil
		} else if migErr := repository.Migrate(s.metadataPool, s.cfg.Metadata.MigrationsPath, s.logger); migErr != nil {
			s.logger.Error("metadata migration failed", zap.Error(migErr))
		}
	}

	var provider llm.Provider
	if s.cfg.LLM.APIKey != "" {
		provider = llm.NewHTTPProvider(s.cfg.LLM.BaseURL, s.cfg.LLM.APIKey, s.cfg.LLM.Timeout)
	}
	gateway := llm.New(provider, llm.Config{
		Model:           s.cfg.LLM.Model,
		CostPer1KTokens: s.cfg.LLM.CostPer1KTokens,
		MinInterval:     s.cfg.LLM.MinInterval,
		Timeout:         s.cfg.LLM.Timeout,
	}, s.metricsCollector, s.logger)

	warehouseAdapter := warehouse.New(s.warehousePool, s.metricsCollector, s.logger)
	repo := repository.New(s.metadataPool, s.metricsCollector, s.logger)
	intentAnalyzer := intent.New(gateway, s.cacheAdapter, s.logger)
	dataCtxRetriever := datacontext.New(warehouseAdapter, s.logger)
	insightGenerator := insightgen.New(gateway, s.logger)
	vizBuilder := visualization.New(s.logger)

	orchestrator := pipeline.New(s.cacheAdapter, repo, intentAnalyzer, dataCtxRetriever, insightGenerator, vizBuilder, s.logger)

	if err := s.startHTTPServer(orchestrator, repo); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}
	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("start metrics server: %w", err)
	}

	s.logger.Info("insight engine started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
	)
	return nil
}

func (s *Server) startHTTPServer(orchestrator *pipeline.Orchestrator, repo *repository.Repository) error {
	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(s.logger)
	if s.warehousePool != nil {
		healthHandler.RegisterCheck(handlers.NewPingCheck("warehouse", s.warehousePool.Ping))
	}
	if s.metadataPool != nil {
		healthHandler.RegisterCheck(handlers.NewPingCheck("metadata", s.metadataPool.Ping))
	}
	mux.HandleFunc("GET /healthz", healthHandler.HandleHealthz)
	mux.HandleFunc("GET /readyz", healthHandler.HandleReady)

	insightHandler := handlers.NewInsightHandler(orchestrator, repo, s.logger)
	mux.HandleFunc("POST /v1/questions", insightHandler.HandleProcess)
	mux.HandleFunc("GET /v1/questions", insightHandler.HandleList)
	mux.HandleFunc("GET /v1/questions/{id}", insightHandler.HandleGet)
	mux.HandleFunc("GET /v1/questions/{id}/insights", insightHandler.HandleInsights)

	handler := Chain(mux,
		Recovery(s.logger),
		RequestID(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.metricsCollector),
		Timeout(s.cfg.RequestTimeout),
	)

	cfg := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}
	s.httpManager = server.NewManager(handler, cfg, s.logger)
	return s.httpManager.Start()
}

func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	cfg := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}
	s.metricsManager = server.NewManager(mux, cfg, s.logger)
	return s.metricsManager.Start()
}

// WaitForShutdown blocks until the HTTP listener receives a shutdown signal,
// then tears down every other component.
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}
	s.Shutdown()
}

// Shutdown tears down every component. The metrics server stops first
// (synchronously, so in-flight /metrics scrapes during shutdown still see a
// live collector); the four backing-resource closers are independent of
// each other and run concurrently via errgroup.
func (s *Server) Shutdown() {
	s.logger.Info("shutting down")
	ctx := context.Background()

	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("metrics server shutdown error", zap.Error(err))
		}
	}

	var g errgroup.Group
	if s.cacheAdapter != nil {
		st := s.cacheAdapter.Stats()
		s.logger.Info("cache stats",
			zap.Uint64("hits", st.Hits),
			zap.Uint64("misses", st.Misses),
			zap.Uint64("errors", st.Errors),
			zap.Float64("hit_rate", st.HitRate),
		)
		g.Go(func() error { return s.cacheAdapter.Close() })
	}
	if s.warehousePool != nil {
		g.Go(func() error { return s.warehousePool.Close() })
	}
	if s.metadataPool != nil {
		g.Go(func() error { return s.metadataPool.Close() })
	}
	if s.telemetryProviders != nil {
		g.Go(func() error { return s.telemetryProviders.Shutdown(ctx) })
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("component shutdown error", zap.Error(err))
	}

	s.wg.Wait()
	s.logger.Info("shutdown complete")
}
