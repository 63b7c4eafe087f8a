// Package main is the entrypoint for the chat-with-vid API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hanifnaufal/chat-with-vid/internal/api"
	"github.com/hanifnaufal/chat-with-vid/internal/api/handler"
	mw "github.com/hanifnaufal/chat-with-vid/internal/api/middleware"
	"github.com/hanifnaufal/chat-with-vid/internal/api/response"
	"github.com/hanifnaufal/chat-with-vid/internal/cache"
	"github.com/hanifnaufal/chat-with-vid/internal/chat"
	"github.com/hanifnaufal/chat-with-vid/internal/config"
	"github.com/hanifnaufal/chat-with-vid/internal/store"
	"github.com/hanifnaufal/chat-with-vid/internal/youtube"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "workers", cfg.Worker.Count)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create store and fetchers
	pgStore := store.NewPostgresStore(pool)
	transcripts := youtube.NewTranscriptClient(cfg.YouTube.BaseURL,
		cfg.YouTube.PreferredLanguages, cfg.YouTube.FetchTimeout)
	metadata := youtube.NewYtDlpClient(cfg.YouTube.YtDlpPath, cfg.YouTube.YtDlpTimeout)

	// 6. Start the background worker pool
	queue := chat.NewQueue(cfg.Worker.QueueSize, cfg.Worker.TaskTimeout)
	chatService := chat.NewService(pgStore, transcripts, metadata, queue)
	queue.Start(ctx, cfg.Worker.Count, chatService)
	slog.Info("worker pool started", "workers", cfg.Worker.Count, "queue_size", cfg.Worker.QueueSize)

	// 7. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(redisCache, cfg.Server.RequestsPerMinute),

		HealthHandler:     healthHandler(pgStore, redisCache),
		CreateChatHandler: handler.NewCreateChatHandler(chatService),
		GetChatHandler:    handler.NewGetChatHandler(chatService),
		ListChatsHandler:  handler.NewListChatsHandler(),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Let in-flight background tasks finish before exiting.
	queue.Stop()

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded")
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
