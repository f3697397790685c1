package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/carelens/internal/config"
	"github.com/kailas-cloud/carelens/internal/domain/county"
	logpkg "github.com/kailas-cloud/carelens/internal/logger"
	"github.com/kailas-cloud/carelens/internal/metrics"
	datasetrepo "github.com/kailas-cloud/carelens/internal/repository/dataset"
	chiTransport "github.com/kailas-cloud/carelens/internal/transport/chi"
	dashboarduc "github.com/kailas-cloud/carelens/internal/usecase/dashboard"
	healthuc "github.com/kailas-cloud/carelens/internal/usecase/health"
	"github.com/kailas-cloud/carelens/internal/usecase/view"
	"github.com/kailas-cloud/carelens/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting carelens dashboard server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_dir", cfg.Data.Dir),
		zap.Strings("region_groups", cfg.Dashboard.RegionGroups),
	)

	// Register dashboard metrics explicitly (no init())
	metrics.RegisterDashboardMetrics()

	settings, err := dashboardSettings(cfg.Dashboard)
	if err != nil {
		logger.Fatal("Invalid dashboard settings", zap.Error(err))
	}

	repo := datasetrepo.New(os.DirFS(cfg.Data.Dir), datasetrepo.Files{
		Counties:   cfg.Data.Counties,
		Hospitals:  cfg.Data.Hospitals,
		Procedures: cfg.Data.Procedures,
		Geography:  cfg.Data.Geography,
	}, logger)

	dashSvc := dashboarduc.New(repo, settings, logger).WithInitialTopN(cfg.Dashboard.DefaultTopN)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), time.Duration(cfg.Data.LoadTimeoutSec)*time.Second)
	err = dashSvc.Load(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Fatal("Dataset load failed", zap.Error(err))
	}

	healthSvc := healthuc.New(dashSvc, version.Version)

	server := chiTransport.NewServer(dashSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

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
		logger.Info("Starting HTTP server", zap.String("addr", addr), zap.String("session", dashSvc.ID()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// dashboardSettings converts validated config into view settings.
func dashboardSettings(dc config.DashboardConfig) (view.Settings, error) {
	metric, err := county.ParseMetric(dc.RankMetric)
	if err != nil {
		return view.Settings{}, fmt.Errorf("rank metric: %w", err)
	}
	return view.Settings{
		RegionGroups: dc.RegionGroups,
		Highlight:    dc.Highlight,
		RankMetric:   metric,
		ColorMin:     dc.ColorMin,
		ColorMax:     dc.ColorMax,
	}, nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
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

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line; for /api/v1/ws it is emitted when the stream closes.
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
