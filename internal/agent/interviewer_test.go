package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Rrens/ai-interviewer/internal/domain"
	"github.com/Rrens/ai-interviewer/internal/llm"
	"github.com/Rrens/ai-interviewer/internal/prompts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGenerator mocks the StructuredGenerator interface
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateStructured(ctx context.Context, prompt, systemInstruction string, t llm.ModelType) (json.RawMessage, error) {
	args := m.Called(ctx, prompt, systemInstruction, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func newAgent(t *testing.T) (*Interviewer, *MockGenerator) {
	t.Helper()
	pm, err := prompts.NewManager()
	require.NoError(t, err)
	gen := new(MockGenerator)
	return NewInterviewer(gen, pm), gen
}

func newInterview() *domain.Interview {
	return domain.NewInterview(uuid.New(), domain.NewInterviewParams{
		CandidateName: "Grace",
		TheoryTopic:   "overfitting",
	})
}

func turnJSON(speech string, meta domain.TheoryMeta) json.RawMessage {
	b, _ := json.Marshal(domain.Turn{Speech: speech, Meta: meta})
	return b
}

func TestInterviewer_InitialQuestion(t *testing.T) {
	a, gen := newAgent(t)
	iv := newInterview()

	gen.On("GenerateStructured", mock.Anything,
		mock.MatchedBy(func(p string) bool { return strings.Contains(p, "Ask the Phase 1 core concept question") }),
		mock.MatchedBy(func(s string) bool { return strings.Contains(s, "about overfitting.") }),
		llm.ModelInterviewer,
	).Return(turnJSON("What does overfitting mean?", domain.TheoryMeta{Phase: 1}), nil)

	turn := a.InitialQuestion(context.Background(), iv)

	assert.Equal(t, "What does overfitting mean?", turn.Speech)
	assert.Equal(t, 1, turn.Meta.Phase)
	assert.Equal(t, 1, iv.TheoryPhase)
	gen.AssertExpectations(t)
}

func TestInterviewer_FollowupsAdvancePhase(t *testing.T) {
	a, gen := newAgent(t)
	iv := newInterview()
	iv.AddMessage(domain.RoleAssistant, "What does overfitting mean?")
	iv.AddMessage(domain.RoleUser, "Memorizing noise")

	gen.On("GenerateStructured", mock.Anything, mock.Anything, mock.Anything, llm.ModelInterviewer).
		Return(turnJSON("Why does that hurt?", domain.TheoryMeta{Phase: 2, FollowupUsed: true}), nil)

	a.Respond(context.Background(), iv, "Memorizing noise")
	assert.Equal(t, 1, iv.TheoryFollowupsAsked)
	assert.Equal(t, 1, iv.TheoryPhase)

	a.Respond(context.Background(), iv, "It fails on new data")
	assert.Equal(t, 2, iv.TheoryFollowupsAsked)
	assert.Equal(t, 2, iv.TheoryPhase)
	assert.Equal(t, domain.PhaseTheory, iv.CurrentPhase)
}

func TestInterviewer_EndTheoryRoundForcesCoding(t *testing.T) {
	a, gen := newAgent(t)
	iv := newInterview()
	iv.AddMessage(domain.RoleUser, "answer")

	gen.On("GenerateStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(turnJSON("Thanks, let's code.", domain.TheoryMeta{Phase: 1, EndTheoryRound: true}), nil)

	a.Respond(context.Background(), iv, "answer")

	assert.Equal(t, domain.PhaseCoding, iv.CurrentPhase)
	assert.Equal(t, 1, iv.TheoryPhase)
	assert.Contains(t, iv.PhaseStartTimes, domain.PhaseCoding)
}

func TestInterviewer_FlagsApplied(t *testing.T) {
	a, gen := newAgent(t)
	iv := newInterview()
	iv.AddMessage(domain.RoleUser, "it is like, stuff")

	gen.On("GenerateStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(turnJSON("Can you give an example?", domain.TheoryMeta{Phase: 2, FlagVague: true, FlagIncorrect: true}), nil)

	a.Respond(context.Background(), iv, "it is like, stuff")

	assert.True(t, iv.Flags[domain.FlagVague])
	assert.True(t, iv.Flags[domain.FlagIncorrect])
	assert.Equal(t, 0, iv.TheoryFollowupsAsked)
}

func TestInterviewer_FallbackLeavesStateUntouched(t *testing.T) {
	cases := map[string]struct {
		doc json.RawMessage
		err error
	}{
		"gateway exhausted": {err: &llm.ExhaustedError{Attempts: 3, Err: errors.New("unavailable")}},
		"invalid json":      {err: &llm.InvalidResponseError{Raw: "nope", Err: errors.New("bad")}},
		"missing meta":      {doc: json.RawMessage(`{"speech": "hi"}`)},
		"missing speech":    {doc: json.RawMessage(`{"meta": {"end_theory_round": true}}`)},
		"wrong meta type":   {doc: json.RawMessage(`{"speech": "hi", "meta": {"phase": "two"}}`)},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			a, gen := newAgent(t)
			iv := newInterview()
			iv.AdvancePhase()
			iv.TheoryFollowupsAsked = 1
			before := iv.Clone()

			if tc.err != nil {
				gen.On("GenerateStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)
			} else {
				gen.On("GenerateStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(tc.doc, nil)
			}

			turn := a.Respond(context.Background(), iv, "answer")

			assert.Equal(t, FallbackSpeech, turn.Speech)
			assert.Equal(t, domain.TheoryMeta{Phase: 2}, turn.Meta)
			assert.Equal(t, before.CurrentPhase, iv.CurrentPhase)
			assert.Equal(t, before.TheoryPhase, iv.TheoryPhase)
			assert.Equal(t, before.TheoryFollowupsAsked, iv.TheoryFollowupsAsked)
			assert.Equal(t, before.Flags, iv.Flags)
			assert.Equal(t, before.UpdatedAt, iv.UpdatedAt)
		})
	}
}

func TestBuildContext(t *testing.T) {
	iv := newInterview()
	for i := range 7 {
		iv.AddMessage(domain.RoleUser, string(rune('a'+i)))
	}

	ctx := BuildContext(iv, "latest answer")

	assert.True(t, strings.HasPrefix(ctx, "Interview State:\n- Current Phase: theory\n- Theory Phase: 1\n"))
	assert.Contains(t, ctx, "- Theory Topic: overfitting")
	assert.Contains(t, ctx, "- Candidate: Grace")
	assert.Contains(t, ctx, "Recent Transcript:\nuser: c\nuser: d\nuser: e\nuser: f\nuser: g")
	assert.NotContains(t, ctx, "user: b")
	assert.Contains(t, ctx, "Latest User Message: latest answer")
	assert.True(t, strings.HasSuffix(ctx, "Generate your next response following the rules."))
}

func TestBuildContext_FirstTurn(t *testing.T) {
	ctx := BuildContext(newInterview(), "")

	assert.NotContains(t, ctx, "Latest User Message")
	assert.Contains(t, ctx, "Ask the Phase 1 core concept question")
}

func TestApplyMeta_NoAdvanceAtLastSubPhase(t *testing.T) {
	iv := newInterview()
	iv.AdvancePhase()
	iv.AdvancePhase()
	iv.TheoryFollowupsAsked = 2

	applyMeta(iv, domain.TheoryMeta{Phase: 3})

	assert.Equal(t, 3, iv.TheoryPhase)
	assert.Equal(t, domain.PhaseTheory, iv.CurrentPhase)
}
