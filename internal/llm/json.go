package llm

import (
	"encoding/json"
	"strings"
)

// jsonOnlyInstruction is appended to every structured prompt
const jsonOnlyInstruction = "\n\nIMPORTANT: Respond with valid JSON only. No markdown, no code blocks."

// StripCodeFence removes a markdown code block wrapper the model may emit despite instructions
func StripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// ParseStructured strips any fence and checks the rest is well-formed JSON
func ParseStructured(text string) (json.RawMessage, error) {
	cleaned := StripCodeFence(text)

	var probe any
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, &InvalidResponseError{
			Raw: truncate(cleaned, rawPreviewLen),
			Err: err,
		}
	}

	return json.RawMessage(cleaned), nil
}
