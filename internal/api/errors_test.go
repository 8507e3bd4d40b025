package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorMessagePrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		header     http.Header
		body       string
		wantMsg    string
		wantCode   string
		wantRetry  int
	}{
		{
			name:    "nested_error_message_wins",
			status:  400,
			body:    `{"error": {"message": "email already registered"}, "message": "other", "code": "dup"}`,
			wantMsg: "email already registered",
		},
		{
			name:    "flat_message",
			status:  400,
			body:    `{"message": "invalid credentials"}`,
			wantMsg: "invalid credentials",
		},
		{
			name:    "string_error_field",
			status:  400,
			body:    `{"error": "token expired"}`,
			wantMsg: "token expired",
		},
		{
			name:      "rate_limit_code_with_retry_after",
			status:    429,
			header:    http.Header{"Retry-After": []string{"45"}},
			body:      `{"code": "email_token_rate_limited"}`,
			wantMsg:   "Too many password reset requests. Try again in 45 seconds.",
			wantCode:  "email_token_rate_limited",
			wantRetry: 45,
		},
		{
			name:     "rate_limit_code_without_retry_after",
			status:   429,
			body:     `{"code": "email_token_rate_limited"}`,
			wantMsg:  "Too many password reset requests. Try again in a moment.",
			wantCode: "email_token_rate_limited",
		},
		{
			name:     "unknown_code_passes_through",
			status:   400,
			body:     `{"code": "vault_limit_reached"}`,
			wantMsg:  "vault_limit_reached",
			wantCode: "vault_limit_reached",
		},
		{
			name:    "non_json_body_is_message",
			status:  502,
			body:    "upstream timed out",
			wantMsg: "upstream timed out",
		},
		{
			name:    "empty_body_falls_back_to_status_line",
			status:  503,
			body:    "",
			wantMsg: "HTTP 503: Service Unavailable",
		},
		{
			name:    "json_without_usable_fields_keeps_raw_body",
			status:  400,
			body:    `{"detail": 7}`,
			wantMsg: `{"detail": 7}`,
		},
		{
			name:      "invalid_retry_after_ignored",
			status:    429,
			header:    http.Header{"Retry-After": []string{"soon"}},
			body:      `{"code": "email_token_rate_limited"}`,
			wantMsg:   "Too many password reset requests. Try again in a moment.",
			wantCode:  "email_token_rate_limited",
			wantRetry: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			header := tt.header
			if header == nil {
				header = http.Header{}
			}
			apiErr := newError(tt.status, http.StatusText(tt.status), header, []byte(tt.body))
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantMsg, apiErr.Error())
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantRetry, apiErr.RetryAfter)
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	unauthorized := &Error{Status: 401, Message: "no"}
	server := &Error{Status: 503, Message: "down"}

	assert.True(t, IsUnauthorized(unauthorized))
	assert.False(t, IsUnauthorized(server))
	assert.True(t, IsServerError(server))
	assert.False(t, IsServerError(unauthorized))
	assert.True(t, IsStatus(server, 503))
	assert.False(t, IsStatus(errors.New("plain"), 503))
}
