package domain

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Phase is the top-level stage of an interview
type Phase string

const (
	PhaseTheory   Phase = "theory"
	PhaseCoding   Phase = "coding"
	PhaseComplete Phase = "complete"
)

// CodingMode is the sub-state of the coding phase
type CodingMode string

const (
	CodingModeProblem    CodingMode = "problem"
	CodingModeSilent     CodingMode = "silent"
	CodingModeDiscussion CodingMode = "discussion"
	CodingModeEnd        CodingMode = "end"
)

// Theory sub-phases run from 1 to MaxTheoryPhase
const MaxTheoryPhase = 3

// Well-known flag names
const (
	FlagVague     = "vague"
	FlagIncorrect = "incorrect"
)

// Defaults applied when an interview is created without explicit values
const (
	DefaultInterviewType = "ml_junior"
	DefaultLanguage      = "python"
	DefaultDifficulty    = "junior"
)

var (
	ErrInterviewNotFound = errors.New("interview not found")
	ErrInterviewComplete = errors.New("interview is already complete")
	ErrPhaseUnsupported  = errors.New("candidate responses are not supported in the coding phase")
	ErrInvalidTransition = errors.New("invalid phase transition")
)

// Interview is the aggregate root for one interview session
type Interview struct {
	ID          uuid.UUID `json:"interview_id"`
	CandidateID uuid.UUID `json:"candidate_id"`

	CandidateName   string  `json:"candidate_name"`
	TheoryTopic     string  `json:"theory_topic"`
	CodingProblemID *string `json:"coding_problem_id,omitempty"`
	Language        string  `json:"language"`
	Difficulty      string  `json:"difficulty"`
	InterviewType   string  `json:"interview_type"`

	CurrentPhase         Phase      `json:"current_phase"`
	TheoryPhase          int        `json:"theory_phase"`
	TheoryFollowupsAsked int        `json:"theory_followups_asked"`
	CodingMode           CodingMode `json:"coding_mode"`

	Transcript      []Message           `json:"transcript"`
	Flags           map[string]bool     `json:"flags"`
	CodeSubmissions []CodeResult        `json:"code_submissions"`
	PhaseStartTimes map[Phase]time.Time `json:"phase_start_times"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewInterviewParams holds the creation-time attributes of an interview
type NewInterviewParams struct {
	CandidateName   string
	TheoryTopic     string
	InterviewType   string
	CodingProblemID *string
	Language        string
	Difficulty      string
}

// NewInterview allocates a fresh interview in the first theory sub-phase
func NewInterview(candidateID uuid.UUID, p NewInterviewParams) *Interview {
	now := time.Now().UTC()

	interviewType := p.InterviewType
	if interviewType == "" {
		interviewType = DefaultInterviewType
	}
	language := p.Language
	if language == "" {
		language = DefaultLanguage
	}
	difficulty := p.Difficulty
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}

	return &Interview{
		ID:              uuid.New(),
		CandidateID:     candidateID,
		CandidateName:   p.CandidateName,
		TheoryTopic:     p.TheoryTopic,
		CodingProblemID: p.CodingProblemID,
		Language:        language,
		Difficulty:      difficulty,
		InterviewType:   interviewType,
		CurrentPhase:    PhaseTheory,
		TheoryPhase:     1,
		CodingMode:      CodingModeProblem,
		Transcript:      []Message{},
		Flags:           map[string]bool{},
		CodeSubmissions: []CodeResult{},
		PhaseStartTimes: map[Phase]time.Time{PhaseTheory: now},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Touch refreshes UpdatedAt
func (i *Interview) Touch() {
	i.UpdatedAt = time.Now().UTC()
}

// AddMessage appends a message to the transcript
func (i *Interview) AddMessage(role MessageRole, content string) {
	i.Transcript = append(i.Transcript, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	i.Touch()
}

// SetFlag records a flag for later evaluation
func (i *Interview) SetFlag(name string, value bool) {
	if i.Flags == nil {
		i.Flags = map[string]bool{}
	}
	i.Flags[name] = value
	i.Touch()
}

// AdvancePhase moves to the next theory sub-phase, or to the coding phase after the last one.
// Outside the theory phase it only refreshes the timestamp.
func (i *Interview) AdvancePhase() {
	if i.CurrentPhase == PhaseTheory {
		if i.TheoryPhase < MaxTheoryPhase {
			i.TheoryPhase++
		} else {
			i.enter(PhaseCoding)
		}
	}
	i.Touch()
}

// EndTheoryRound jumps straight to the coding phase regardless of the sub-phase counter
func (i *Interview) EndTheoryRound() {
	if i.CurrentPhase == PhaseTheory {
		i.enter(PhaseCoding)
	}
	i.Touch()
}

// Complete closes a coding-phase interview
func (i *Interview) Complete() error {
	if i.CurrentPhase != PhaseCoding {
		return ErrInvalidTransition
	}
	i.enter(PhaseComplete)
	i.Touch()
	return nil
}

// AddCodeSubmission appends a code execution result
func (i *Interview) AddCodeSubmission(result CodeResult) {
	i.CodeSubmissions = append(i.CodeSubmissions, result)
	i.Touch()
}

// IsComplete reports whether the interview has ended
func (i *Interview) IsComplete() bool {
	return i.CurrentPhase == PhaseComplete
}

// RecentTranscript returns at most n of the latest messages, oldest first
func (i *Interview) RecentTranscript(n int) []Message {
	if n <= 0 {
		return nil
	}
	if len(i.Transcript) <= n {
		return i.Transcript
	}
	return i.Transcript[len(i.Transcript)-n:]
}

// Clone returns a deep copy so stores never share mutable state with callers
func (i *Interview) Clone() *Interview {
	c := *i
	c.Transcript = slices.Clone(i.Transcript)
	c.CodeSubmissions = slices.Clone(i.CodeSubmissions)
	c.Flags = maps.Clone(i.Flags)
	c.PhaseStartTimes = maps.Clone(i.PhaseStartTimes)
	if i.CodingProblemID != nil {
		id := *i.CodingProblemID
		c.CodingProblemID = &id
	}
	return &c
}

func (i *Interview) enter(p Phase) {
	i.CurrentPhase = p
	if i.PhaseStartTimes == nil {
		i.PhaseStartTimes = map[Phase]time.Time{}
	}
	i.PhaseStartTimes[p] = time.Now().UTC()
}

// InterviewRepository defines the interface for interview storage
type InterviewRepository interface {
	Create(ctx context.Context, interview *Interview) error
	Get(ctx context.Context, id uuid.UUID) (*Interview, error)
	Save(ctx context.Context, interview *Interview) error
}
