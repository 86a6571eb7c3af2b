package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"filestation-ai/internal/handlers"
	"filestation-ai/internal/metrics"
	"filestation-ai/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	AuthService     service.AuthService
	DocumentService service.DocumentService
	ChatService     service.ChatService
	Tokens          TokenVerifier
	HealthChecks    []handlers.HealthCheck
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	// Add CORS middleware
	r.Use(CORS)

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	filesHandler := handlers.NewFilesHandler(deps.DocumentService)
	chatHandler := handlers.NewChatHandler(deps.ChatService)

	r.Method(http.MethodGet, "/", handlers.NewIndexHandler())
	r.Method(http.MethodGet, "/api/health", handlers.NewHealthHandler(deps.HealthChecks...))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(deps.Tokens))

		r.Get("/me", authHandler.Me)
		r.Post("/save-telegram-chat", authHandler.SaveTelegramChat)
		r.Post("/generate-telegram-token", authHandler.GenerateTelegramToken)
		r.Post("/save-file", filesHandler.SaveFile)
		r.Get("/files", filesHandler.ListFiles)
		r.Method(http.MethodPost, "/chat", chatHandler)
	})

	return r
}
