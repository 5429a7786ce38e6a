package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/sqlquery-ai/internal/api"
	"github.com/Rrens/sqlquery-ai/internal/config"
	"github.com/Rrens/sqlquery-ai/internal/database"
	"github.com/Rrens/sqlquery-ai/internal/database/mysql"
	"github.com/Rrens/sqlquery-ai/internal/database/postgres"
	"github.com/Rrens/sqlquery-ai/internal/database/sqlite"
	"github.com/Rrens/sqlquery-ai/internal/database/sqlserver"
	"github.com/Rrens/sqlquery-ai/internal/llm"
	"github.com/Rrens/sqlquery-ai/internal/llm/factory"
	"github.com/Rrens/sqlquery-ai/internal/llm/instrumented"
	"github.com/Rrens/sqlquery-ai/internal/logging"
	"github.com/Rrens/sqlquery-ai/internal/repository/redis"
	"github.com/Rrens/sqlquery-ai/internal/security"
	"github.com/Rrens/sqlquery-ai/internal/service"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	providerType, providerCfg, err := cfg.LLM.Selected()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid LLM provider configuration")
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("provider", providerType.String()).
		Str("database", cfg.Database.Type).
		Msg("Starting SQL query API server")

	// Initialize LLM provider
	provider, err := factory.New(providerType, providerCfg, llm.Options{
		HTTPClient: llm.NewHTTPClient(cfg.LLM.RequestTimeout),
		Logger:     logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create LLM provider")
	}
	providerInfo, err := factory.Describe(providerType, providerCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to describe LLM provider")
	}
	if !providerInfo.Configured {
		log.Warn().Str("provider", providerInfo.Name).Msg("LLM provider credentials are incomplete; generation requests will fail")
	}

	// Initialize database adapters
	dbRouter := database.NewRouter()
	dbRouter.RegisterAdapter("sqlserver", sqlserver.NewAdapter)
	dbRouter.RegisterAdapter("postgres", postgres.NewAdapter)
	dbRouter.RegisterAdapter("mysql", mysql.NewAdapter)
	dbRouter.RegisterAdapter("sqlite", sqlite.NewAdapter)
	defer dbRouter.CloseAll()

	deps := api.Dependencies{
		Config:   cfg,
		Provider: providerInfo,
	}

	// Initialize Redis
	var schemaCache service.SchemaCache
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		schemaCache = redis.NewSchemaCache(redisClient, cfg.Redis.SchemaTTL)
		deps.Cache = redisClient
		deps.RateLimiter = redis.NewRateLimiter(redisClient, cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst)
	}

	if cfg.Auth.Enabled {
		if cfg.Auth.JWTSecret == "" {
			log.Fatal().Msg("auth is enabled but JWT_SECRET is not set")
		}
		deps.JWTManager = security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
		deps.Clients = security.NewClientVerifier(cfg.Auth.Clients)
	}

	deps.SQL = service.NewSQLService(
		instrumented.Wrap(provider, logger),
		dbRouter,
		service.Target{
			Type:       cfg.Database.Type,
			Connection: database.ConnectionConfigFrom(cfg.Database),
			Options:    database.QueryOptionsFrom(cfg.Database),
		},
		schemaCache,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
