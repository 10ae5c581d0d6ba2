package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_BuildTheoryPrompt(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	prompt, err := m.Build(InterviewerTheory, map[string]string{"TheoryTopic": "gradient descent"})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Ask one foundational ML question about gradient descent.")
	assert.Contains(t, prompt, `"end_theory_round": false`)
	assert.NotContains(t, prompt, "{{.TheoryTopic}}")
}

func TestManager_BuildErrors(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	_, err = m.Build("unknown", nil)
	assert.ErrorContains(t, err, "template not found")

	_, err = m.Build(InterviewerTheory, map[string]string{})
	assert.ErrorContains(t, err, "missing variable TheoryTopic")
}

func TestManager_Names(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	assert.Contains(t, m.Names(), InterviewerTheory)
}
