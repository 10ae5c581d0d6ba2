package llm

import "context"

// ModelType selects which configured model serves a call
type ModelType string

const (
	ModelInterviewer ModelType = "interviewer"
	ModelJudge       ModelType = "judge"
)

// Request contains text generation parameters
type Request struct {
	Prompt            string
	SystemInstruction string
	Model             string
	Temperature       float32
	MaxOutputTokens   int32
}

// Response contains LLM generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// DefaultModel returns the model used when a request names none
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Generate produces a completion for a single prompt
	Generate(ctx context.Context, req Request) (*Response, error)
}
