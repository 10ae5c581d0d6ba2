package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/Rrens/ai-interviewer/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	StructuredTemperature  float32 = 0.3
	DefaultMaxOutputTokens int32   = 500
	DefaultMaxAttempts             = 3
)

// Backoff computes the wait between attempts as multiplier * 2^(n-1) seconds clamped to [Min, Max]
type Backoff struct {
	Multiplier float64
	Min        time.Duration
	Max        time.Duration
}

// DefaultBackoff waits 2s, 2s, 4s, 8s, 10s, ...
func DefaultBackoff() Backoff {
	return Backoff{Multiplier: 1, Min: 2 * time.Second, Max: 10 * time.Second}
}

// Delay returns the wait after the given failed attempt (1-based)
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(b.Multiplier * math.Pow(2, float64(attempt-1)) * float64(time.Second))
	if d < b.Min {
		d = b.Min
	}
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}
	return d
}

// GatewayConfig configures model selection and resilience
type GatewayConfig struct {
	InterviewerModel  string
	JudgeModel        string
	MaxAttempts       int
	Backoff           Backoff
	Timeout           time.Duration
	RequestsPerMinute int
}

// TextRequest is a single generation call routed by model type
type TextRequest struct {
	Prompt            string
	SystemInstruction string
	ModelType         ModelType
	Temperature       float32
	MaxOutputTokens   int32
}

// Gateway wraps a provider with model selection, bounded retry and output normalization
type Gateway struct {
	provider Provider
	cfg      GatewayConfig
	limiters *RateLimiterPool
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewGateway creates a gateway over the given provider
func NewGateway(provider Provider, cfg GatewayConfig) *Gateway {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Backoff == (Backoff{}) {
		cfg.Backoff = DefaultBackoff()
	}
	return &Gateway{
		provider: provider,
		cfg:      cfg,
		limiters: NewRateLimiterPool(),
		sleep:    sleepContext,
	}
}

// Model returns the configured model id for a model type
func (g *Gateway) Model(t ModelType) string {
	var model string
	if t == ModelJudge {
		model = g.cfg.JudgeModel
	} else {
		model = g.cfg.InterviewerModel
	}
	if model == "" {
		model = g.provider.DefaultModel()
	}
	return model
}

// GenerateText calls the provider, retrying any failure up to MaxAttempts
func (g *Gateway) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	model := g.Model(req.ModelType)
	providerReq := Request{
		Prompt:            req.Prompt,
		SystemInstruction: req.SystemInstruction,
		Model:             model,
		Temperature:       req.Temperature,
		MaxOutputTokens:   req.MaxOutputTokens,
	}
	if providerReq.MaxOutputTokens <= 0 {
		providerReq.MaxOutputTokens = DefaultMaxOutputTokens
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		resp, err := g.attempt(ctx, model, providerReq)
		if err == nil {
			log.Debug().
				Str("provider", g.provider.Name()).
				Str("model", model).
				Int("attempt", attempt).
				Int("tokens_used", resp.TokensUsed).
				Int64("latency_ms", resp.LatencyMs).
				Msg("LLM response received")
			return resp.Text, nil
		}
		lastErr = err

		log.Error().Err(err).
			Str("provider", g.provider.Name()).
			Str("model", model).
			Int("attempt", attempt).
			Msg("LLM call failed")

		if attempt == g.cfg.MaxAttempts || ctx.Err() != nil {
			break
		}

		wait := g.cfg.Backoff.Delay(attempt)
		metrics.ObserveLLMRetry(g.provider.Name(), model)
		log.Warn().
			Str("model", model).
			Dur("backoff", wait).
			Int("next_attempt", attempt+1).
			Msg("Retrying LLM request")
		if err := g.sleep(ctx, wait); err != nil {
			break
		}
	}

	return "", &ExhaustedError{Attempts: g.cfg.MaxAttempts, Err: lastErr}
}

func (g *Gateway) attempt(ctx context.Context, model string, req Request) (*Response, error) {
	if g.cfg.RequestsPerMinute > 0 {
		if err := g.limiters.Wait(ctx, model, g.cfg.RequestsPerMinute); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.provider.Generate(ctx, req)
	metrics.ObserveLLMCall(g.provider.Name(), model, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%s returned no response", g.provider.Name())
	}
	return resp, nil
}

// GenerateStructured requests JSON output and returns the parsed document.
// A reply that is not valid JSON yields an *InvalidResponseError.
func (g *Gateway) GenerateStructured(ctx context.Context, prompt, systemInstruction string, t ModelType) (json.RawMessage, error) {
	text, err := g.GenerateText(ctx, TextRequest{
		Prompt:            prompt + jsonOnlyInstruction,
		SystemInstruction: systemInstruction,
		ModelType:         t,
		Temperature:       StructuredTemperature,
		MaxOutputTokens:   DefaultMaxOutputTokens,
	})
	if err != nil {
		return nil, err
	}

	doc, err := ParseStructured(text)
	if err != nil {
		log.Error().Err(err).Str("raw", truncate(StripCodeFence(text), rawPreviewLen)).Msg("Failed to parse JSON response")
		return nil, err
	}
	return doc, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
