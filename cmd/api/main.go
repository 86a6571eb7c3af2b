package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"filestation-ai/internal/auth"
	"filestation-ai/internal/config"
	"filestation-ai/internal/handlers"
	"filestation-ai/internal/http"
	"filestation-ai/internal/ingest"
	"filestation-ai/internal/llm"
	"filestation-ai/internal/service"
	"filestation-ai/internal/storage"
	"filestation-ai/internal/telegram"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	userRepo := storage.NewUserRepo(db)
	documentRepo := storage.NewDocumentRepo(db)

	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
	fetcher := ingest.NewHTTPFetcher(cfg.FetchTimeout, cfg.FetchMaxBytes)
	extractor := ingest.NewMetadataExtractor(llmClient)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	authService := service.NewAuthService(userRepo, issuer)
	documentService := service.NewDocumentService(documentRepo, fetcher, extractor)
	chatService := service.NewChatService(documentRepo, llmClient, service.ChatOptions{
		MaxCandidates:    cfg.ChatMaxCandidates,
		ContextDocs:      cfg.ChatContextDocs,
		MaxLinks:         cfg.ChatMaxLinks,
		MaxQuestionRunes: cfg.ChatMaxQuestionRunes,
	})

	router := http.NewRouter(&http.Deps{
		AuthService:     authService,
		DocumentService: documentService,
		ChatService:     chatService,
		Tokens:          issuer,
		HealthChecks: []handlers.HealthCheck{
			{Name: "database", Critical: true, Check: db.PingContext},
			{Name: "llm", Check: llmClient.Ping},
		},
	})

	if cfg.TelegramBotToken != "" {
		sessions, closeSessions := newSessionStore(cfg)
		defer closeSessions()

		bridge := telegram.NewBridge(
			telegram.NewClient(cfg.TelegramAPIURL, cfg.TelegramBotToken),
			authService,
			chatService,
			sessions,
		)
		go func() {
			if err := bridge.Run(ctx); err != nil {
				slog.Error("Telegram bridge stopped", "error", err)
			}
		}()
	} else {
		slog.Info("Telegram bot token not set, bridge disabled")
	}

	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}

// newSessionStore uses Redis when REDIS_URL is set and falls back to memory.
func newSessionStore(cfg *config.Config) (telegram.SessionStore, func()) {
	if cfg.RedisURL == "" {
		slog.Info("Telegram sessions kept in memory")
		return telegram.NewMemoryStore(), func() {}
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(redisOpts)
	slog.Info("Telegram sessions kept in redis", "addr", redisOpts.Addr, "ttl", cfg.SessionTTL)
	return telegram.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }
}
