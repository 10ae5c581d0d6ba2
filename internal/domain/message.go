package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a transcript message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// IsValid reports whether r is one of the known roles
func (r MessageRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// Message is a single transcript entry. Entries are never modified once appended.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// CodeResult is the outcome of one code submission as reported by the execution environment
type CodeResult struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Language     string    `json:"language"`
	Code         string    `json:"code"`
	Compiled     bool      `json:"compiled"`
	TestsPassed  int       `json:"tests_passed"`
	TestsFailed  int       `json:"tests_failed"`
	RuntimeMs    *float64  `json:"runtime_ms,omitempty"`
	Error        *string   `json:"error,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
