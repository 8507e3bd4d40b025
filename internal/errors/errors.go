package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// AuthError wraps an authentication failure from the Vault Hub API with
// a suggestion matched to the failure mode.
func AuthError(operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("Authentication failed during %s", operation),
		Suggestion: authSuggestion(err),
		Err:        err,
	}
}

// authSuggestion returns a next step matched to common auth failures.
func authSuggestion(err error) string {
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "invalid credentials"), strings.Contains(errStr, "401"):
		return "Check your email and password, or run 'hubctl magic-link request <email>' for a passwordless login"
	case strings.Contains(errStr, "expired"):
		return "Your session or link has expired. Run 'hubctl login' to sign in again"
	case strings.Contains(errStr, "rate limit"), strings.Contains(errStr, "too many"):
		return "Wait a moment before retrying"
	case strings.Contains(errStr, "connection refused"), strings.Contains(errStr, "no such host"):
		return "Verify the server URL with 'hubctl doctor' and check your network"
	case strings.Contains(errStr, "timeout"):
		return "The server did not respond in time. Check your network connection and try again"
	}

	return ""
}
