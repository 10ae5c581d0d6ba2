package llm

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// RateLimiterPool manages per-model rate limiters
type RateLimiterPool struct {
	limiters map[string]*rate.Limiter
	rates    map[string]int
	mu       sync.Mutex
}

// NewRateLimiterPool creates a new rate limiter pool
func NewRateLimiterPool() *RateLimiterPool {
	return &RateLimiterPool{
		limiters: make(map[string]*rate.Limiter),
		rates:    make(map[string]int),
	}
}

// GetOrCreate returns the limiter for a model, creating it on first use.
// The first requested rate wins for the lifetime of the pool.
func (p *RateLimiterPool) GetOrCreate(model string, requestsPerMinute int) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, exists := p.limiters[model]; exists {
		if existing := p.rates[model]; existing != requestsPerMinute {
			log.Warn().
				Str("model", model).
				Int("existing_rpm", existing).
				Int("requested_rpm", requestsPerMinute).
				Msg("Rate limiter already exists with different rate, keeping existing")
		}
		return limiter
	}

	rps := float64(requestsPerMinute) / 60.0
	burst := max(1, requestsPerMinute/5)
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	p.limiters[model] = limiter
	p.rates[model] = requestsPerMinute

	log.Debug().
		Str("model", model).
		Int("rpm", requestsPerMinute).
		Int("burst", burst).
		Msg("Created rate limiter")

	return limiter
}

// Wait blocks until the model's limiter admits another request
func (p *RateLimiterPool) Wait(ctx context.Context, model string, requestsPerMinute int) error {
	return p.GetOrCreate(model, requestsPerMinute).Wait(ctx)
}
