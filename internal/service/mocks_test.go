package service

import (
	"context"

	"github.com/Rrens/ai-interviewer/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockInterviewRepository mocks the InterviewRepository interface
type MockInterviewRepository struct {
	mock.Mock
}

func (m *MockInterviewRepository) Create(ctx context.Context, interview *domain.Interview) error {
	args := m.Called(ctx, interview)
	return args.Error(0)
}

func (m *MockInterviewRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Interview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}

func (m *MockInterviewRepository) Save(ctx context.Context, interview *domain.Interview) error {
	args := m.Called(ctx, interview)
	return args.Error(0)
}

// MockResponder mocks the Responder interface
type MockResponder struct {
	mock.Mock
}

func (m *MockResponder) InitialQuestion(ctx context.Context, iv *domain.Interview) domain.Turn {
	args := m.Called(ctx, iv)
	return args.Get(0).(domain.Turn)
}

func (m *MockResponder) Respond(ctx context.Context, iv *domain.Interview, userMessage string) domain.Turn {
	args := m.Called(ctx, iv, userMessage)
	return args.Get(0).(domain.Turn)
}
