package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Error is a non-2xx response from the Vault Hub API, carrying the
// human-readable message derived by the gateway's precedence rules.
type Error struct {
	Status     int
	StatusText string
	Code       string
	Message    string
	// RetryAfter is the server's Retry-After hint in seconds, 0 when absent.
	RetryAfter int
}

func (e *Error) Error() string {
	return e.Message
}

// IsStatus reports whether err (or any wrapped error) is an API Error
// with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsServerError reports whether err is a 5xx from the API. Only these
// are eligible for the magic-link flow's manual retry.
func IsServerError(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return false
}

// errorBody is the JSON error envelope the API may return. The nested
// error object and the flat fields both occur in the wild.
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

// nestedError is the {"error": {"message": ...}} form.
type nestedError struct {
	Message string `json:"message"`
}

// newError derives the user-facing message for a failed response.
// Precedence: explicit error.message/message/error JSON field, then a
// per-code mapped message, then the raw body text, then the HTTP
// status line.
func newError(status int, statusText string, header http.Header, body []byte) *Error {
	apiErr := &Error{
		Status:     status,
		StatusText: statusText,
		Message:    fmt.Sprintf("HTTP %d: %s", status, statusText),
	}

	if ra := header.Get("Retry-After"); ra != "" {
		if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
			apiErr.RetryAfter = seconds
		}
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return apiErr
	}

	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		// Not JSON; the raw body is the message.
		apiErr.Message = trimmed
		return apiErr
	}

	apiErr.Code = envelope.Code

	if msg := explicitMessage(&envelope); msg != "" {
		apiErr.Message = msg
		return apiErr
	}

	if envelope.Code != "" {
		apiErr.Message = codeMessage(envelope.Code, apiErr.RetryAfter)
		return apiErr
	}

	apiErr.Message = trimmed
	return apiErr
}

// explicitMessage extracts error.message, message, or a string-typed
// error field, in that order.
func explicitMessage(envelope *errorBody) string {
	if len(envelope.Error) > 0 {
		var nested nestedError
		if err := json.Unmarshal(envelope.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if err := json.Unmarshal(envelope.Error, &flat); err == nil && flat != "" {
			return flat
		}
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return ""
}

// codeMessage maps machine error codes to user-facing messages.
func codeMessage(code string, retryAfter int) string {
	switch code {
	case "email_token_rate_limited":
		waitLabel := "a moment"
		if retryAfter > 0 {
			waitLabel = fmt.Sprintf("%d seconds", retryAfter)
		}
		return fmt.Sprintf("Too many password reset requests. Try again in %s.", waitLabel)
	default:
		return code
	}
}
