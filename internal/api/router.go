package api

import (
	"net/http"

	"github.com/Rrens/ai-interviewer/internal/api/handler"
	customMiddleware "github.com/Rrens/ai-interviewer/internal/api/middleware"
	"github.com/Rrens/ai-interviewer/internal/config"
	"github.com/Rrens/ai-interviewer/internal/llm"
	"github.com/Rrens/ai-interviewer/internal/metrics"
	"github.com/Rrens/ai-interviewer/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the collaborators the HTTP layer needs
type Deps struct {
	Interviews  *service.InterviewService
	LLMRouter   *llm.Router
	Store       handler.Pinger             // nil for the in-memory store
	RateLimiter customMiddleware.Limiter // nil disables rate limiting
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)
	if cfg.Server.MiddlewareTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	interviewHandler := handler.NewInterviewHandler(deps.Interviews)

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck(cfg.App.Version))
		r.Get("/ready", handler.ReadyCheck(deps.Store))
		if deps.LLMRouter != nil {
			r.Get("/llm-providers", handler.ListLLMProviders(deps.LLMRouter))
		}

		r.Group(func(r chi.Router) {
			if cfg.Security.RateLimit.Enabled && deps.RateLimiter != nil {
				r.Use(customMiddleware.NewRateLimitMiddleware(deps.RateLimiter).Limit)
			}

			r.Route("/interviews", func(r chi.Router) {
				r.Post("/", interviewHandler.Create)

				r.Route("/{interviewID}", func(r chi.Router) {
					r.Get("/", interviewHandler.Get)
					r.Post("/respond", interviewHandler.Respond)
					r.Get("/transcript", interviewHandler.Transcript)
					r.Post("/submissions", interviewHandler.SubmitCode)
					r.Post("/complete", interviewHandler.Complete)
				})
			})
		})
	})

	return r
}
