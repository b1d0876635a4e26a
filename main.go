// api/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"shopsmart/api/catalog"
	"shopsmart/api/config"
	"shopsmart/api/database"
	"shopsmart/api/gemini"
	"shopsmart/api/handlers"
	"shopsmart/api/insight"
	"shopsmart/api/session"
	"shopsmart/api/store"
	"shopsmart/api/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracer, err := telemetry.InitTracer(cfg.Telemetry, logger)
	if err != nil {
		logger.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Error("Failed to load product catalog", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}
	logger.Info("Product catalog loaded", "products", cat.Len())

	// --- Optional ClickHouse mirror for tracked events ---
	sessionOpts := []session.Option{session.WithLogger(logger)}
	if cfg.ClickHouse.Enabled() {
		chClient, err := database.NewClickHouseDB(context.Background(), cfg.ClickHouse)
		if err != nil {
			logger.Error("Failed to initialize ClickHouse database", "error", err)
			os.Exit(1)
		}
		defer chClient.Close()

		sink := store.NewClickHouseSink(chClient, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = sink.EnsureSchema(ctx)
		cancel()
		if err != nil {
			logger.Error("Failed to prepare ClickHouse schema", "error", err)
			os.Exit(1)
		}
		sessionOpts = append(sessionOpts, session.WithSink(sink, 0))
	}

	if cfg.Gemini.APIKey == "" {
		logger.Warn("No Gemini API key configured; insight requests will return the error fallback")
	}
	client, err := gemini.NewClient(context.Background(), cfg.Gemini.APIKey,
		gemini.WithBaseURL(cfg.Gemini.BaseURL),
		gemini.WithHTTPClient(telemetry.HTTPClient(cfg.Telemetry, cfg.Gemini.Timeout)),
	)
	if err != nil {
		logger.Error("Failed to initialize Gemini client", "error", err)
		os.Exit(1)
	}
	requestor := insight.NewRequestor(client, cfg.Gemini.Model,
		insight.WithLocation(cfg.Display.Location()),
		insight.WithLogger(logger),
	)
	sess := session.New(requestor, sessionOpts...)

	r := handlers.NewRouter(logger, cfg.Server.AllowedOrigin,
		handlers.NewStoreHandlers(sess, cat),
		handlers.NewTrackHandlers(sess),
		handlers.NewDashboardHandlers(sess),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info("Go API server starting", "addr", "http://localhost"+srv.Addr, "session_id", sess.ID())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Go API server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	// Drain in-flight analyses and mirror writes before ClickHouse is closed.
	sess.Close()
	if err := shutdownTracer(ctx); err != nil {
		logger.Warn("Error shutting down tracer", "error", err)
	}

	logger.Info("Server exiting.")
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
