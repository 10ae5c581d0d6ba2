package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/ai-interviewer/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Responder produces interviewer turns and applies their meta to the interview
type Responder interface {
	InitialQuestion(ctx context.Context, iv *domain.Interview) domain.Turn
	Respond(ctx context.Context, iv *domain.Interview, userMessage string) domain.Turn
}

// InterviewService runs interview sessions on top of a store and an interviewer agent
type InterviewService struct {
	repo      domain.InterviewRepository
	responder Responder
	locks     *keyedMutex
}

// NewInterviewService creates a new interview service
func NewInterviewService(repo domain.InterviewRepository, responder Responder) *InterviewService {
	return &InterviewService{
		repo:      repo,
		responder: responder,
		locks:     newKeyedMutex(),
	}
}

// Create starts an interview and asks the opening question
func (s *InterviewService) Create(ctx context.Context, req domain.CreateInterviewRequest) (*domain.CreateInterviewResponse, error) {
	iv := domain.NewInterview(uuid.New(), domain.NewInterviewParams{
		CandidateName:   req.CandidateName,
		TheoryTopic:     req.TheoryTopic,
		InterviewType:   req.InterviewType,
		CodingProblemID: req.CodingProblemID,
	})

	unlock := s.locks.Lock(iv.ID)
	defer unlock()

	if err := s.repo.Create(ctx, iv); err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	turn := s.responder.InitialQuestion(ctx, iv)
	if turn.Speech != "" {
		iv.AddMessage(domain.RoleAssistant, turn.Speech)
	}

	if err := s.repo.Save(ctx, iv); err != nil {
		return nil, fmt.Errorf("failed to save interview: %w", err)
	}

	log.Info().
		Str("interview_id", iv.ID.String()).
		Str("theory_topic", iv.TheoryTopic).
		Str("interview_type", iv.InterviewType).
		Msg("Interview created")

	return &domain.CreateInterviewResponse{
		InterviewID:         iv.ID,
		CandidateID:         iv.CandidateID,
		Message:             "Interview created successfully",
		InterviewerResponse: turn,
	}, nil
}

// Get returns the public view of an interview
func (s *InterviewService) Get(ctx context.Context, id uuid.UUID) (*domain.InterviewSummary, error) {
	iv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := iv.Summary()
	return &summary, nil
}

// Respond records a candidate answer and returns the interviewer's next turn
func (s *InterviewService) Respond(ctx context.Context, id uuid.UUID, message string) (*domain.Turn, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	iv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch iv.CurrentPhase {
	case domain.PhaseComplete:
		return nil, domain.ErrInterviewComplete
	case domain.PhaseCoding:
		return nil, domain.ErrPhaseUnsupported
	}

	iv.AddMessage(domain.RoleUser, message)

	phaseBefore, subPhaseBefore := iv.CurrentPhase, iv.TheoryPhase
	turn := s.responder.Respond(ctx, iv, message)
	if turn.Speech != "" {
		iv.AddMessage(domain.RoleAssistant, turn.Speech)
	}

	if err := s.repo.Save(ctx, iv); err != nil {
		return nil, fmt.Errorf("failed to save interview: %w", err)
	}

	if iv.CurrentPhase != phaseBefore || iv.TheoryPhase != subPhaseBefore {
		log.Info().
			Str("interview_id", id.String()).
			Str("phase", string(iv.CurrentPhase)).
			Int("theory_phase", iv.TheoryPhase).
			Msg("Interview phase changed")
	}

	return &turn, nil
}

// Transcript returns every message of an interview in order
func (s *InterviewService) Transcript(ctx context.Context, id uuid.UUID) ([]domain.Message, error) {
	iv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return iv.Transcript, nil
}

// SubmitCode records the outcome of a code run performed elsewhere
func (s *InterviewService) SubmitCode(ctx context.Context, id uuid.UUID, req domain.CodeSubmissionRequest) (*domain.CodeResult, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	iv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.IsComplete() {
		return nil, domain.ErrInterviewComplete
	}

	result := domain.CodeResult{
		SubmissionID: uuid.New(),
		Language:     req.Language,
		Code:         req.Code,
		Compiled:     req.Compiled,
		TestsPassed:  req.TestsPassed,
		TestsFailed:  req.TestsFailed,
		RuntimeMs:    req.RuntimeMs,
		Error:        req.Error,
		SubmittedAt:  time.Now().UTC(),
	}
	iv.AddCodeSubmission(result)

	if err := s.repo.Save(ctx, iv); err != nil {
		return nil, fmt.Errorf("failed to save interview: %w", err)
	}
	return &result, nil
}

// Complete closes an interview that has reached the coding phase
func (s *InterviewService) Complete(ctx context.Context, id uuid.UUID) (*domain.InterviewSummary, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	iv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := iv.Complete(); err != nil {
		return nil, fmt.Errorf("cannot complete interview in %s phase: %w", iv.CurrentPhase, err)
	}

	if err := s.repo.Save(ctx, iv); err != nil {
		return nil, fmt.Errorf("failed to save interview: %w", err)
	}

	log.Info().Str("interview_id", id.String()).Msg("Interview completed")

	summary := iv.Summary()
	return &summary, nil
}
