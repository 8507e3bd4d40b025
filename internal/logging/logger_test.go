package logging_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaulthub/hubctl/internal/logging"
)

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		log  func(l *logging.Logger)
		want string
	}{
		{
			name: "info",
			log:  func(l *logging.Logger) { l.Info("signed in as %s", "ops@example.com") },
			want: "✓ signed in as ops@example.com\n",
		},
		{
			name: "warn",
			log:  func(l *logging.Logger) { l.Warn("logout audit call failed") },
			want: "⚠ logout audit call failed\n",
		},
		{
			name: "error",
			log:  func(l *logging.Logger) { l.Error("request failed: %d", 503) },
			want: "✗ request failed: 503\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := logging.NewWithWriter(&buf, false, true)
			tt.log(logger)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestDebugSuppressedByDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, false, true)
	logger.Debug("should not appear")
	assert.Empty(t, buf.String())

	debugLogger := logging.NewWithWriter(&buf, true, true)
	debugLogger.Debug("now visible")
	assert.Contains(t, buf.String(), "[DEBUG] now visible")
}

func TestSecretNeverPrints(t *testing.T) {
	t.Parallel()

	token := logging.Secret("sess_4f9a7c2e11d84b")
	assert.Equal(t, "[REDACTED]", token.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", token))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%s", token))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", token))
}

func TestRedact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		secrets []string
		want    string
	}{
		{
			name:    "replaces_token",
			input:   "Authorization: Bearer sess_4f9a7c2e",
			secrets: []string{"sess_4f9a7c2e"},
			want:    "Authorization: Bearer [REDACTED]",
		},
		{
			name:    "short_values_kept",
			input:   "the cat sat",
			secrets: []string{"cat"},
			want:    "the cat sat",
		},
		{
			name:    "multiple_occurrences",
			input:   "token=abcd1234 retry token=abcd1234",
			secrets: []string{"abcd1234"},
			want:    "token=[REDACTED] retry token=[REDACTED]",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logging.Redact(tt.input, tt.secrets))
		})
	}
}
