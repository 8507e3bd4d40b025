package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinkToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		arg  string
		want string
	}{
		{
			name: "raw_token",
			arg:  "ml_0123456789abcdef",
			want: "ml_0123456789abcdef",
		},
		{
			name: "full_link_with_fragment",
			arg:  "https://vault.example.com/auth/callback#token=ml_0123456789abcdef&source=magic",
			want: "ml_0123456789abcdef",
		},
		{
			name: "link_with_token_query",
			arg:  "https://vault.example.com/verify?token=ml_0123456789abcdef",
			want: "ml_0123456789abcdef",
		},
		{
			name: "link_without_token_passes_through",
			arg:  "https://vault.example.com/verify",
			want: "https://vault.example.com/verify",
		},
		{
			name: "empty",
			arg:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extractLinkToken(tt.arg))
		})
	}
}
