package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/ai-interviewer/internal/api/handler"
	"github.com/Rrens/ai-interviewer/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck("v1")(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected data to be a map")
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "v1", data["version"])
	assert.NotEmpty(t, data["timestamp"])
}

func TestReadyCheck(t *testing.T) {
	t.Run("in-memory store", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ReadyCheck(nil)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })
		handler.ReadyCheck(down)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "store not ready", decode(t, rec)["error"])
	})
}

func TestListLLMProviders(t *testing.T) {
	router := llm.NewRouter("ollama")

	rec := httptest.NewRecorder()
	handler.ListLLMProviders(router)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/llm-providers", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "ollama", data["default_provider"])
}
