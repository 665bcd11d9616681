// Rizz Labs - dating chat game server
package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ashureev/rizz-labs/internal/api"
	"github.com/ashureev/rizz-labs/internal/completion"
	"github.com/ashureev/rizz-labs/internal/config"
	"github.com/ashureev/rizz-labs/internal/game"
	"github.com/ashureev/rizz-labs/internal/identity"
	"github.com/ashureev/rizz-labs/internal/live"
	"github.com/ashureev/rizz-labs/internal/logging"
	"github.com/ashureev/rizz-labs/internal/middleware"
	"github.com/ashureev/rizz-labs/internal/store"
	"github.com/ashureev/rizz-labs/internal/transcript"
	"github.com/ashureev/rizz-labs/web"
)

const messageBurst = 10

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.IsDevelopment())
	slog.SetDefault(logger)

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "provider", cfg.Completion.Provider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(ctx); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	transcripts, err := transcript.New(transcript.Config{
		Enabled:       cfg.ConversationLog.Enabled,
		Dir:           cfg.ConversationLog.Dir,
		GlobalEnabled: cfg.ConversationLog.GlobalEnabled,
		GlobalPath:    cfg.ConversationLog.GlobalPath,
		QueueSize:     cfg.ConversationLog.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize conversation logger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := transcripts.Close(); closeErr != nil {
			slog.Error("Failed to close conversation logger", "error", closeErr)
		}
	}()

	seed := uint64(time.Now().UnixNano())
	completer, err := completion.New(ctx, completion.Config{
		Provider:        cfg.Completion.Provider,
		Model:           cfg.Completion.Model,
		Timeout:         cfg.Completion.Timeout,
		OpenAIAPIKey:    cfg.Completion.OpenAIAPIKey,
		AnthropicAPIKey: cfg.Completion.AnthropicAPIKey,
		GoogleAPIKey:    cfg.Completion.GoogleAPIKey,
	}, rand.New(rand.NewPCG(seed, 1)), logger)
	if err != nil {
		slog.Error("Failed to initialize completion service", "error", err)
		os.Exit(1)
	}
	slog.Info("Completion service ready", "provider", completer.Provider())

	games := game.NewController(completer, repo, transcripts, game.Options{
		TypingDelay: cfg.TypingDelayEnabled,
		IdleTTL:     cfg.SessionIdleTTL,
		Rand:        rand.New(rand.NewPCG(seed, 2)),
		Logger:      logger,
	})
	game.StartSweeper(ctx, games, cfg.SweepInterval)

	// Initialize handlers.
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, messageBurst)
	baseHandler := api.NewHandler(repo, games, completer, cfg)
	conns := live.NewConnManager()
	wsHandler := live.NewWebSocketHandler(games, conns, live.DefaultTickInterval, cfg.AllowedOrigins, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

	// All routes use identity middleware (no auth needed).
	r.Route("/api", func(r chi.Router) {
		api.NewHealthHandler(repo).RegisterHealth(r)
		api.NewAccountHandler(baseHandler).RegisterRoutes(r)
		api.NewGameHandler(baseHandler, limiter.Middleware).RegisterRoutes(r)
		api.NewEvaluateHandler(games.Now).RegisterRoutes(r)
		api.NewResultsHandler(baseHandler).RegisterRoutes(r)
	})

	// WebSocket endpoint.
	r.Get("/ws/game", wsHandler.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Countdown streams stay open for the whole session.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,                 // 0 = no timeout for websocket streams
		IdleTimeout:  120 * time.Second, // 2 minutes for idle connections
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")
	conns.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
