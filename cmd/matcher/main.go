package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matcher/internal/config"
	logpkg "github.com/kailas-cloud/matcher/internal/logger"
	"github.com/kailas-cloud/matcher/internal/metrics"
	"github.com/kailas-cloud/matcher/internal/repository/catalog"
	"github.com/kailas-cloud/matcher/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/matcher/internal/transport/chi"
	openaiVision "github.com/kailas-cloud/matcher/internal/transport/openai"
	analyzeuc "github.com/kailas-cloud/matcher/internal/usecase/analyze"
	healthuc "github.com/kailas-cloud/matcher/internal/usecase/health"
	searchuc "github.com/kailas-cloud/matcher/internal/usecase/search"
	"github.com/kailas-cloud/matcher/internal/version"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting matcher API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.Bool("vision_configured", cfg.Vision.Configured()),
	)

	// Load the catalog. Missing or malformed is fatal: the service has no
	// meaningful behavior without products.
	store, err := catalog.Load(cfg.Catalog.Path, cfg.Catalog.MinProducts)
	if err != nil {
		logger.Fatal("Failed to load product catalog", zap.Error(err))
	}
	logger.Info("Product catalog loaded", zap.Int("products", store.Count()))

	// Register vision metrics explicitly (no init())
	metrics.RegisterVisionMetrics()

	// Absence of a vision credential is a degraded mode, not an error.
	var describer analyzeuc.Describer
	if cfg.Vision.Configured() {
		describer = openaiVision.NewClient(&openaiVision.Config{
			APIKey:  cfg.Vision.APIKey,
			BaseURL: cfg.Vision.BaseURL,
			Model:   cfg.Vision.Model,
			Timeout: time.Duration(cfg.Vision.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		logger.Info("Vision provider configured", zap.String("model", cfg.Vision.Model))
	} else {
		logger.Warn("Vision credential not set; search runs in offline mode")
	}

	// The embedding cache is owned here and handed to the orchestrator by
	// reference: populated lazily, never invalidated.
	cache := embcache.New(metrics.EmbeddingCacheTotal)

	analyzeSvc := analyzeuc.New(describer, metrics.AnalyzeFallbacksTotal, logger)
	searchSvc := searchuc.New(store, cache, analyzeSvc).WithTopN(cfg.Search.TopN)
	healthSvc := healthuc.New(store, analyzeSvc)

	server := chiTransport.NewServer(searchSvc, store, healthSvc, chiTransport.Options{
		MaxUploadBytes: int64(cfg.HTTP.MaxUploadMB) << 20,
		FetchTimeout:   time.Duration(cfg.Search.FetchTimeoutSec) * time.Second,
		StaticDir:      cfg.Static.Dir,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
