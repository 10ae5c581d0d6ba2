package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Rrens/ai-interviewer/internal/domain"
	"github.com/google/uuid"
)

// InterviewRepository keeps interviews in process memory. Nothing survives a restart.
type InterviewRepository struct {
	mu         sync.RWMutex
	interviews map[uuid.UUID]*domain.Interview
}

// NewInterviewRepository creates an empty in-memory store
func NewInterviewRepository() *InterviewRepository {
	return &InterviewRepository{
		interviews: make(map[uuid.UUID]*domain.Interview),
	}
}

// Create stores a copy of a new interview
func (r *InterviewRepository) Create(_ context.Context, interview *domain.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.interviews[interview.ID]; exists {
		return fmt.Errorf("interview %s already exists", interview.ID)
	}
	r.interviews[interview.ID] = interview.Clone()
	return nil
}

// Get returns a copy of the stored interview
func (r *InterviewRepository) Get(_ context.Context, id uuid.UUID) (*domain.Interview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	interview, ok := r.interviews[id]
	if !ok {
		return nil, domain.ErrInterviewNotFound
	}
	return interview.Clone(), nil
}

// Save replaces the stored interview; the last writer wins
func (r *InterviewRepository) Save(_ context.Context, interview *domain.Interview) error {
	interview.Touch()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.interviews[interview.ID] = interview.Clone()
	return nil
}

// Len reports how many interviews are held
func (r *InterviewRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.interviews)
}
