package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/github-activity-tracker/internal/config"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/monitoring"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/ratelimit"
)

var version = "1.0.0"

const shutdownTimeout = 30 * time.Second

// @title           GitHub Activity Tracker API
// @version         1.0
// @description     Charts a GitHub user's public activity over time from the unauthenticated GitHub REST API.
// @license.name    MIT
// @BasePath        /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	appLogger := monitoring.NewLogger(cfg.LogLevel)
	slog.SetDefault(appLogger.Logger)
	gin.SetMode(cfg.GinMode)

	appMetrics := monitoring.NewMetrics()

	var redisClient *ratelimit.RedisClient
	if cfg.RedisEnabled() {
		redisClient, err = ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		}
	}

	app, err := newServer(cfg, appLogger, appMetrics, redisClient)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server",
			"addr", cfg.Addr(),
			"version", version,
			"github_api", cfg.GitHubAPIURL,
			"analysis_timeout", cfg.AnalysisTimeout.String(),
			"redis", cfg.RedisEnabled(),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		app.close()
		os.Exit(1)
	}

	app.close()
	slog.Info("Server exited")
}
