package api

import (
	"net/http"

	"github.com/Rrens/sqlquery-ai/internal/api/handler"
	customMiddleware "github.com/Rrens/sqlquery-ai/internal/api/middleware"
	"github.com/Rrens/sqlquery-ai/internal/config"
	"github.com/Rrens/sqlquery-ai/internal/llm/factory"
	"github.com/Rrens/sqlquery-ai/internal/metrics"
	"github.com/Rrens/sqlquery-ai/internal/security"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SQLService is the service surface the router exposes
type SQLService interface {
	handler.SQLService
	handler.Pinger
	handler.CacheFlusher
}

// Dependencies are the collaborators the router wires into handlers
type Dependencies struct {
	Config   *config.Config
	SQL      SQLService
	Provider factory.ProviderInfo

	// RateLimiter and Cache are nil when Redis is disabled
	RateLimiter customMiddleware.Limiter
	Cache       handler.Pinger

	// JWTManager and Clients are only used when auth is enabled
	JWTManager *security.JWTManager
	Clients    *security.ClientVerifier
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.Server.MiddlewareTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	queryHandler := handler.NewQueryHandler(deps.SQL)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.SQL, deps.Cache))

		if cfg.Auth.Enabled {
			authHandler := handler.NewAuthHandler(deps.Clients, deps.JWTManager, int64(deps.JWTManager.AccessTokenTTL().Seconds()))
			r.Post("/auth/token", authHandler.Token)
		}

		r.Group(func(r chi.Router) {
			if cfg.Auth.Enabled {
				r.Use(customMiddleware.NewAuthMiddleware(deps.JWTManager).Authenticate)
			}
			if deps.RateLimiter != nil {
				r.Use(customMiddleware.NewRateLimitMiddleware(deps.RateLimiter).Limit)
			}

			r.Get("/llm-provider", handler.GetLLMProvider(deps.Provider))
			r.Post("/cache/flush", handler.FlushCache(deps.SQL))

			r.Route("/sql", func(r chi.Router) {
				r.Post("/generate", queryHandler.Generate)
				r.Post("/execute", queryHandler.Execute)
				r.Post("/generate-and-execute", queryHandler.GenerateAndExecute)
				r.Get("/schema", queryHandler.GetSchema)
			})
		})
	})

	return r
}
