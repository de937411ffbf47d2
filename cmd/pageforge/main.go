// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/pageforge/internal/cache"
	"github.com/olegiv/pageforge/internal/config"
	"github.com/olegiv/pageforge/internal/engine"
	"github.com/olegiv/pageforge/internal/handler/api"
	"github.com/olegiv/pageforge/internal/llm"
	"github.com/olegiv/pageforge/internal/logging"
	"github.com/olegiv/pageforge/internal/middleware"
	"github.com/olegiv/pageforge/internal/scheduler"
	"github.com/olegiv/pageforge/internal/store"
	"github.com/olegiv/pageforge/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "PageForge - AI landing page builder backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEFORGE_AI_PROVIDER     AI provider: openai|ollama (default: openai)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEFORGE_AI_API_KEY      API key (required for openai)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEFORGE_AI_MODEL        Model name (default: gpt-4o)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEFORGE_DB_PATH         SQLite database path (default: ./data/pageforge.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEFORGE_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEFORGE_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEFORGE_REDIS_URL       Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("pageforge %s (commit: %s, built: %s)\n",
			version.Version, version.GitCommit, version.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	st := store.New(db)

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, st))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Generation provider
	var provider llm.Provider
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		provider = llm.NewOpenAIClient(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
	case config.ProviderOllama:
		provider = llm.NewOllamaClient(cfg.OllamaURL, cfg.AIModel)
	}
	genClient := llm.NewClient(provider, time.Duration(cfg.AITimeout)*time.Second, logger)
	slog.Info("generation provider initialized", "provider", provider.ID(), "model", cfg.AIModel)

	// Page read cache
	backend, err := cache.New(cfg.CacheBackend, cfg.RedisURL, cfg.CachePrefix,
		time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	pageCache := cache.NewPageCache(backend, time.Duration(cfg.CacheTTL)*time.Second)
	defer func() {
		if err := pageCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "backend", cfg.CacheBackend)

	// Mutation engine
	eng := engine.New(st, genClient, logger)

	// Scheduler: nightly purge of stale drafts
	sched := scheduler.New(st, cfg.DraftRetentionDays, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(90 * time.Second)) // generation calls can be slow

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	slog.Info("rate limiter initialized", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)

	apiHandler := api.NewHandler(eng, pageCache, logger)
	healthHandler := api.NewHealthHandler(db)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Get("/preview/{pageID}", apiHandler.Preview)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimiter.Middleware())
		r.Mount("/", apiHandler.Routes())
	})
	slog.Info("REST API v1 mounted at /api/v1")

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      120 * time.Second, // generation endpoints block on the provider
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
