package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.InterviewerModel)
	assert.Equal(t, "gemini-1.5-pro", cfg.LLM.JudgeModel)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.LLM.RetryMinWait)
	assert.Equal(t, 10*time.Second, cfg.LLM.RetryMaxWait)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9090
llm:
  provider: ollama
  max_retries: 5
store:
  backend: redis
  ttl: 1h
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, 5, cfg.LLM.MaxRetries)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.Equal(t, "secret", cfg.LLM.Gemini.APIKey)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("STORE_BACKEND", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store backend")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Store: StoreConfig{Backend: "memory"},
		LLM:   LLMConfig{Provider: "gemini", MaxRetries: 0, Timeout: time.Second},
	}
	assert.Error(t, cfg.Validate())

	cfg.LLM.MaxRetries = 3
	assert.NoError(t, cfg.Validate())

	cfg.LLM.Provider = "anthropic"
	assert.Error(t, cfg.Validate())
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", RedisConfig{Host: "localhost", Port: 6379}.Addr())
}
