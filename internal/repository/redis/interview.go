package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/ai-interviewer/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	interviewPrefix     = "interview:"
	DefaultInterviewTTL = 24 * time.Hour
)

// InterviewRepository stores interviews as JSON documents that expire after a TTL.
// Every save refreshes the expiry.
type InterviewRepository struct {
	client *Client
	ttl    time.Duration
}

// NewInterviewRepository creates a redis-backed interview store
func NewInterviewRepository(client *Client, ttl time.Duration) *InterviewRepository {
	if ttl <= 0 {
		ttl = DefaultInterviewTTL
	}
	return &InterviewRepository{client: client, ttl: ttl}
}

func interviewKey(id uuid.UUID) string {
	return interviewPrefix + id.String()
}

// Create stores a new interview, refusing to overwrite an existing id
func (r *InterviewRepository) Create(ctx context.Context, interview *domain.Interview) error {
	data, err := json.Marshal(interview)
	if err != nil {
		return fmt.Errorf("failed to marshal interview: %w", err)
	}

	ok, err := r.client.rdb.SetNX(ctx, interviewKey(interview.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	if !ok {
		return fmt.Errorf("interview %s already exists", interview.ID)
	}
	return nil
}

// Get loads an interview by id
func (r *InterviewRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Interview, error) {
	data, err := r.client.rdb.Get(ctx, interviewKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrInterviewNotFound
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}

	var interview domain.Interview
	if err := json.Unmarshal(data, &interview); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interview: %w", err)
	}

	return &interview, nil
}

// Save upserts the interview; the last writer wins
func (r *InterviewRepository) Save(ctx context.Context, interview *domain.Interview) error {
	interview.Touch()

	data, err := json.Marshal(interview)
	if err != nil {
		return fmt.Errorf("failed to marshal interview: %w", err)
	}

	if err := r.client.rdb.Set(ctx, interviewKey(interview.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save interview: %w", err)
	}
	return nil
}
