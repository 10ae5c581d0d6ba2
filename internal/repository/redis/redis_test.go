package redis

import (
	"context"
	"testing"
	"time"

	"github.com/Rrens/ai-interviewer/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newInterview() *domain.Interview {
	return domain.NewInterview(uuid.New(), domain.NewInterviewParams{
		CandidateName: "Linus",
		TheoryTopic:   "bias-variance",
	})
}

func TestInterviewRepository_CreateGet(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewInterviewRepository(client, time.Hour)
	ctx := context.Background()

	iv := newInterview()
	iv.AddMessage(domain.RoleAssistant, "What is variance?")
	iv.SetFlag(domain.FlagVague, true)
	require.NoError(t, repo.Create(ctx, iv))

	got, err := repo.Get(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, iv.ID, got.ID)
	assert.Equal(t, iv.CandidateName, got.CandidateName)
	require.Len(t, got.Transcript, 1)
	assert.Equal(t, domain.RoleAssistant, got.Transcript[0].Role)
	assert.True(t, got.Flags[domain.FlagVague])
	assert.Contains(t, got.PhaseStartTimes, domain.PhaseTheory)

	assert.Equal(t, time.Hour, mr.TTL(interviewKey(iv.ID)))
	assert.Error(t, repo.Create(ctx, iv), "duplicate id must not overwrite")
}

func TestInterviewRepository_GetUnknown(t *testing.T) {
	_, client := setupTestRedis(t)
	repo := NewInterviewRepository(client, 0)

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrInterviewNotFound)
}

func TestInterviewRepository_SaveRefreshesTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewInterviewRepository(client, time.Hour)
	ctx := context.Background()

	iv := newInterview()
	require.NoError(t, repo.Create(ctx, iv))
	mr.FastForward(30 * time.Minute)

	iv.AdvancePhase()
	require.NoError(t, repo.Save(ctx, iv))
	assert.Equal(t, time.Hour, mr.TTL(interviewKey(iv.ID)))

	got, err := repo.Get(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TheoryPhase)

	mr.FastForward(2 * time.Hour)
	_, err = repo.Get(ctx, iv.ID)
	assert.ErrorIs(t, err, domain.ErrInterviewNotFound)
}

func TestRateLimiter_Allow(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewRateLimiter(client, 2, 1)
	fixed := time.Date(2026, 1, 1, 10, 0, 30, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }
	ctx := context.Background()

	for i := range 3 {
		allowed, remaining, reset, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 2-i, remaining)
		assert.Equal(t, fixed.Truncate(time.Minute).Add(time.Minute), reset)
	}

	allowed, remaining, _, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "10.0.0.1"))
	allowed, _, _, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	fixed = fixed.Add(time.Minute)
	allowed, remaining, _, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, remaining)
}

func TestClient_Ping(t *testing.T) {
	mr, client := setupTestRedis(t)
	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}
