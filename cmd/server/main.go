package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/ai-interviewer/internal/agent"
	"github.com/Rrens/ai-interviewer/internal/api"
	"github.com/Rrens/ai-interviewer/internal/config"
	"github.com/Rrens/ai-interviewer/internal/domain"
	"github.com/Rrens/ai-interviewer/internal/llm"
	"github.com/Rrens/ai-interviewer/internal/llm/gemini"
	"github.com/Rrens/ai-interviewer/internal/llm/ollama"
	"github.com/Rrens/ai-interviewer/internal/llm/openai"
	"github.com/Rrens/ai-interviewer/internal/prompts"
	"github.com/Rrens/ai-interviewer/internal/repository/memory"
	"github.com/Rrens/ai-interviewer/internal/repository/redis"
	"github.com/Rrens/ai-interviewer/internal/service"
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

	logCloser, err := setupLogger(cfg.Logging, cfg.App.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("env", cfg.App.Env).
		Msg("Starting AI interviewer API server")

	// Store
	var (
		repo        domain.InterviewRepository
		deps        api.Deps
		redisClient *redis.Client
	)
	if cfg.Store.Backend == "redis" || cfg.Security.RateLimit.Enabled {
		redisClient, err = redis.NewClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr()).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		deps.Store = redisClient
		if cfg.Security.RateLimit.Enabled {
			deps.RateLimiter = redis.NewRateLimiter(
				redisClient,
				cfg.Security.RateLimit.RequestsPerMinute,
				cfg.Security.RateLimit.Burst,
			)
		}
	}

	switch cfg.Store.Backend {
	case "redis":
		repo = redis.NewInterviewRepository(redisClient, cfg.Store.TTL)
		log.Info().Dur("ttl", cfg.Store.TTL).Msg("Using Redis interview store")
	default:
		repo = memory.NewInterviewRepository()
		log.Warn().Msg("Using in-memory interview store, sessions are lost on restart")
	}

	// LLM
	llmRouter := newLLMRouter(cfg)
	provider, err := llmRouter.GetProvider(cfg.LLM.Provider)
	if err != nil {
		log.Fatal().Err(err).Strs("configured", llmRouter.ListProviders()).Msg("LLM provider unavailable")
	}

	gateway := llm.NewGateway(provider, llm.GatewayConfig{
		InterviewerModel: cfg.LLM.InterviewerModel,
		JudgeModel:       cfg.LLM.JudgeModel,
		MaxAttempts:      cfg.LLM.MaxRetries,
		Backoff: llm.Backoff{
			Multiplier: cfg.LLM.RetryMultiplier,
			Min:        cfg.LLM.RetryMinWait,
			Max:        cfg.LLM.RetryMaxWait,
		},
		Timeout:           cfg.LLM.Timeout,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	})

	log.Info().
		Str("provider", provider.Name()).
		Str("interviewer_model", gateway.Model(llm.ModelInterviewer)).
		Str("judge_model", gateway.Model(llm.ModelJudge)).
		Msg("LLM gateway ready")

	promptManager, err := prompts.NewManager()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load prompts")
	}

	interviewer := agent.NewInterviewer(gateway, promptManager)
	deps.Interviews = service.NewInterviewService(repo, interviewer)
	deps.LLMRouter = llmRouter

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// newLLMRouter registers every provider that has credentials or a host configured
func newLLMRouter(cfg *config.Config) *llm.Router {
	router := llm.NewRouter(cfg.LLM.Provider)
	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.Provider)

	if cfg.LLM.Gemini.APIKey != "" {
		log.Info().Int("key_len", len(cfg.LLM.Gemini.APIKey)).Msg("Registering Gemini provider")
		router.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini, cfg.LLM.InterviewerModel))
	} else {
		log.Warn().Msg("Gemini API Key is empty, skipping registration")
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		router.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI, cfg.LLM.InterviewerModel, cfg.LLM.Timeout))
	}
	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("Registering Ollama provider")
		router.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama, cfg.LLM.InterviewerModel, cfg.LLM.Timeout))
	}

	return router
}
