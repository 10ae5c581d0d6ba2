package domain

import (
	"time"

	"github.com/google/uuid"
)

// TheoryMeta is the control block the interviewer model returns with every theory turn
type TheoryMeta struct {
	Phase          int  `json:"phase"`
	FollowupUsed   bool `json:"followup_used"`
	FlagVague      bool `json:"flag_vague"`
	FlagIncorrect  bool `json:"flag_incorrect"`
	EndTheoryRound bool `json:"end_theory_round"`
}

// Turn is one interviewer reply: the text to speak plus its control block
type Turn struct {
	Speech string     `json:"speech"`
	Meta   TheoryMeta `json:"meta"`
}

// CreateInterviewRequest represents an interview creation request
type CreateInterviewRequest struct {
	CandidateName   string  `json:"candidate_name" validate:"required,min=1,max=100"`
	InterviewType   string  `json:"interview_type" validate:"omitempty,max=100"`
	TheoryTopic     string  `json:"theory_topic" validate:"required,min=1"`
	CodingProblemID *string `json:"coding_problem_id,omitempty"`
}

// CreateInterviewResponse is returned after an interview is created
type CreateInterviewResponse struct {
	InterviewID         uuid.UUID `json:"interview_id"`
	CandidateID         uuid.UUID `json:"candidate_id"`
	Message             string    `json:"message"`
	InterviewerResponse Turn      `json:"interviewer_response"`
}

// CandidateResponseRequest carries one candidate answer
type CandidateResponseRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// CodeSubmissionRequest records the result of running candidate code elsewhere
type CodeSubmissionRequest struct {
	Language    string   `json:"language" validate:"required,max=50"`
	Code        string   `json:"code" validate:"required"`
	Compiled    bool     `json:"compiled"`
	TestsPassed int      `json:"tests_passed" validate:"min=0"`
	TestsFailed int      `json:"tests_failed" validate:"min=0"`
	RuntimeMs   *float64 `json:"runtime_ms,omitempty" validate:"omitempty,min=0"`
	Error       *string  `json:"error,omitempty"`
}

// InterviewSummary is the externally visible view of an interview
type InterviewSummary struct {
	InterviewID          uuid.UUID `json:"interview_id"`
	CandidateID          uuid.UUID `json:"candidate_id"`
	CandidateName        string    `json:"candidate_name"`
	CurrentPhase         Phase     `json:"current_phase"`
	TheoryPhase          int       `json:"theory_phase"`
	TheoryTopic          string    `json:"theory_topic"`
	TheoryFollowupsAsked int       `json:"theory_followups_asked"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Summary builds the external view of the interview
func (i *Interview) Summary() InterviewSummary {
	return InterviewSummary{
		InterviewID:          i.ID,
		CandidateID:          i.CandidateID,
		CandidateName:        i.CandidateName,
		CurrentPhase:         i.CurrentPhase,
		TheoryPhase:          i.TheoryPhase,
		TheoryTopic:          i.TheoryTopic,
		TheoryFollowupsAsked: i.TheoryFollowupsAsked,
		CreatedAt:            i.CreatedAt,
		UpdatedAt:            i.UpdatedAt,
	}
}
