package llm

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse matches any *InvalidResponseError via errors.Is
var ErrInvalidResponse = errors.New("invalid structured response")

// rawPreviewLen bounds how much model output is kept for diagnostics
const rawPreviewLen = 200

// ExhaustedError is returned once every retry attempt has failed
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("llm call failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// InvalidResponseError means the model answered but its output could not be parsed
type InvalidResponseError struct {
	Raw string
	Err error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid structured response from model: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

func (e *InvalidResponseError) Is(target error) bool {
	return target == ErrInvalidResponse
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
