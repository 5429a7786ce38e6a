package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/sqlquery-ai/internal/api/response"
	"github.com/Rrens/sqlquery-ai/internal/llm/factory"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyCheck reports ready when the database answers and, if cache is set, the cache does too
func ReadyCheck(db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.ServiceUnavailable(w, "database not ready")
			return
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				response.ServiceUnavailable(w, "cache not ready")
				return
			}
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}

// GetLLMProvider describes the active provider without exposing credentials
func GetLLMProvider(info factory.ProviderInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, info)
	}
}

// CacheFlusher drops cached schema context
type CacheFlusher interface {
	FlushSchemaCache(ctx context.Context) (int64, error)
}

// FlushCache clears all cached schema context
func FlushCache(cache CacheFlusher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := cache.FlushSchemaCache(r.Context())
		if err != nil {
			response.InternalError(w, "failed to flush cache: "+err.Error())
			return
		}

		response.OK(w, map[string]any{
			"message":      "cache flushed successfully",
			"keys_deleted": deleted,
		})
	}
}
