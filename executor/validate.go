package executor

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxCodeLength bounds the size of a snippet accepted for a run.
const DefaultMaxCodeLength = 64 * 1024

var (
	ErrEmptyCode      = errors.New("please enter some code to run")
	ErrInputExhausted = errors.New("no more input values")
)

// ValidationError reports code that cannot be run.
type ValidationError struct {
	Message string
	Details string
}

func (e *ValidationError) Error() string {
	return e.Message + ": " + e.Details
}

// Validate rejects whitespace-only code and code longer than maxLen bytes.
// A maxLen of zero disables the length check.
func Validate(code string, maxLen int) error {
	if strings.TrimSpace(code) == "" {
		return ErrEmptyCode
	}
	if maxLen > 0 && len(code) > maxLen {
		return &ValidationError{
			Message: "Code length exceeds maximum limit",
			Details: fmt.Sprintf("Max length allowed is %d", maxLen),
		}
	}
	return nil
}
