package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Rrens/ai-interviewer/internal/api/response"
	"github.com/Rrens/ai-interviewer/internal/llm"
)

// Pinger is anything the service needs reachable before it is ready
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck reports liveness and the running version
func HealthCheck(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":    "healthy",
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ReadyCheck returns readiness status including store connectivity.
// A nil pinger means the store is in-process and always ready.
func ReadyCheck(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "store not ready")
				return
			}
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}

// ListLLMProviders returns registered LLM providers
func ListLLMProviders(router *llm.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"providers":        router.GetProvidersInfo(),
			"default_provider": router.DefaultProvider(),
		})
	}
}
