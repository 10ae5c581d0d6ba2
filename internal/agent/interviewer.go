package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Rrens/ai-interviewer/internal/domain"
	"github.com/Rrens/ai-interviewer/internal/llm"
	"github.com/Rrens/ai-interviewer/internal/metrics"
	"github.com/Rrens/ai-interviewer/internal/prompts"
	"github.com/rs/zerolog/log"
)

// FallbackSpeech is spoken whenever a turn cannot be produced
const FallbackSpeech = "I apologize, could you repeat that?"

// contextWindow is how many transcript entries the model sees
const contextWindow = 5

// ErrMalformedTurn means the model returned JSON that does not have the turn shape
var ErrMalformedTurn = errors.New("malformed interviewer turn")

var turnSchema = llm.MustCompileSchema(`{
	"type": "object",
	"required": ["speech", "meta"],
	"properties": {
		"speech": {"type": "string"},
		"meta": {"type": "object"}
	}
}`)

// StructuredGenerator produces a JSON document from a prompt
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, prompt, systemInstruction string, t llm.ModelType) (json.RawMessage, error)
}

// PromptBuilder renders a named system prompt
type PromptBuilder interface {
	Build(name string, data map[string]string) (string, error)
}

// Interviewer drives the theory round: it asks the model for the next turn and applies the
// returned control block to the interview.
type Interviewer struct {
	generator StructuredGenerator
	prompts   PromptBuilder
}

// NewInterviewer creates a theory-round interviewer
func NewInterviewer(generator StructuredGenerator, prompts PromptBuilder) *Interviewer {
	return &Interviewer{
		generator: generator,
		prompts:   prompts,
	}
}

// Respond produces the next interviewer turn and updates the interview from its meta.
// It never fails: any error yields the fallback turn and leaves the interview unchanged.
func (a *Interviewer) Respond(ctx context.Context, iv *domain.Interview, userMessage string) domain.Turn {
	turn, err := a.nextTurn(ctx, iv, userMessage)
	if err != nil {
		log.Error().Err(err).
			Str("interview_id", iv.ID.String()).
			Int("theory_phase", iv.TheoryPhase).
			Msg("Interviewer agent error")
		metrics.ObserveTurn(metrics.TurnFallback)
		return FallbackTurn(iv)
	}

	metrics.ObserveTurn(metrics.TurnOK)
	applyMeta(iv, turn.Meta)
	return turn
}

// InitialQuestion asks the opening question of the theory round
func (a *Interviewer) InitialQuestion(ctx context.Context, iv *domain.Interview) domain.Turn {
	return a.Respond(ctx, iv, "")
}

func (a *Interviewer) nextTurn(ctx context.Context, iv *domain.Interview, userMessage string) (domain.Turn, error) {
	system, err := a.prompts.Build(prompts.InterviewerTheory, map[string]string{
		"TheoryTopic": iv.TheoryTopic,
	})
	if err != nil {
		return domain.Turn{}, fmt.Errorf("failed to build system prompt: %w", err)
	}

	doc, err := a.generator.GenerateStructured(ctx, BuildContext(iv, userMessage), system, llm.ModelInterviewer)
	if err != nil {
		return domain.Turn{}, err
	}

	if err := turnSchema.Validate(doc); err != nil {
		return domain.Turn{}, fmt.Errorf("%w: %v", ErrMalformedTurn, err)
	}

	var turn domain.Turn
	if err := json.Unmarshal(doc, &turn); err != nil {
		return domain.Turn{}, fmt.Errorf("%w: %v", ErrMalformedTurn, err)
	}
	return turn, nil
}

// BuildContext renders the interview state the model sees on every turn
func BuildContext(iv *domain.Interview, userMessage string) string {
	var sb strings.Builder

	sb.WriteString("Interview State:\n")
	fmt.Fprintf(&sb, "- Current Phase: %s\n", iv.CurrentPhase)
	fmt.Fprintf(&sb, "- Theory Phase: %d\n", iv.TheoryPhase)
	fmt.Fprintf(&sb, "- Theory Topic: %s\n", iv.TheoryTopic)
	fmt.Fprintf(&sb, "- Follow-ups Asked: %d\n", iv.TheoryFollowupsAsked)
	fmt.Fprintf(&sb, "- Candidate: %s\n", iv.CandidateName)
	sb.WriteString("\nRecent Transcript:")

	for _, msg := range iv.RecentTranscript(contextWindow) {
		fmt.Fprintf(&sb, "\n%s: %s", msg.Role, msg.Content)
	}

	if userMessage != "" {
		fmt.Fprintf(&sb, "\n\nLatest User Message: %s", userMessage)
	}

	if len(iv.Transcript) == 0 {
		sb.WriteString("\n\nThis is the first message. Ask the Phase 1 core concept question.")
	} else {
		sb.WriteString("\n\nGenerate your next response following the rules.")
	}

	return sb.String()
}

// FallbackTurn is the degraded turn returned when generation fails
func FallbackTurn(iv *domain.Interview) domain.Turn {
	return domain.Turn{
		Speech: FallbackSpeech,
		Meta:   domain.TheoryMeta{Phase: iv.TheoryPhase},
	}
}

// applyMeta updates flags, then counters, then phase
func applyMeta(iv *domain.Interview, meta domain.TheoryMeta) {
	if meta.FlagVague {
		iv.SetFlag(domain.FlagVague, true)
	}
	if meta.FlagIncorrect {
		iv.SetFlag(domain.FlagIncorrect, true)
	}

	if meta.FollowupUsed {
		iv.TheoryFollowupsAsked++
		iv.Touch()
	}

	if meta.EndTheoryRound {
		iv.EndTheoryRound()
	} else if iv.TheoryPhase < domain.MaxTheoryPhase && iv.TheoryFollowupsAsked >= 2 {
		iv.AdvancePhase()
	}
}
