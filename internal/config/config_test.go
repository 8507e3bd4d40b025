package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulthub/hubctl/internal/config"
	huberrors "github.com/vaulthub/hubctl/internal/errors"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hubctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
version: 0
server_url: https://vault.example.com
token_storage: keyring
timeout_ms: 5000
`)

	cfg := &config.Config{Path: path}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "https://vault.example.com", cfg.Definition.ServerURL)
	assert.Equal(t, "vault.example.com", cfg.ServerHost())
	assert.Equal(t, 5*time.Second, cfg.Timeout())
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Path: filepath.Join(t.TempDir(), "absent.yaml")}
	err := cfg.Load()
	require.Error(t, err)

	var cfgErr huberrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Suggestion, "hubctl init")
}

func TestLoadRejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		contents string
		wantIn   string
	}{
		{
			name:     "bad_yaml",
			contents: "version: [unclosed",
			wantIn:   "invalid YAML",
		},
		{
			name:     "missing_server_url",
			contents: "version: 0\n",
			wantIn:   "schema validation",
		},
		{
			name:     "unknown_field",
			contents: "version: 0\nserver_url: https://vault.example.com\nextra: true\n",
			wantIn:   "schema validation",
		},
		{
			name:     "relative_server_url",
			contents: "version: 0\nserver_url: vault.example.com\n",
			wantIn:   "absolute http(s) URL",
		},
		{
			name:     "bad_storage_backend",
			contents: "version: 0\nserver_url: https://vault.example.com\ntoken_storage: cookie\n",
			wantIn:   "schema validation",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{Path: writeConfig(t, tt.contents)}
			err := cfg.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantIn)
		})
	}
}

func TestWriteThenLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "hubctl.yaml")
	cfg := &config.Config{Path: path}
	def := &config.Definition{
		Version:      0,
		ServerURL:    "https://vault.example.com",
		TokenStorage: "file",
	}
	require.NoError(t, cfg.Write(def))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded := &config.Config{Path: path}
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "file", reloaded.Definition.TokenStorage)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "token"), reloaded.TokenFilePath())
}

func TestTimeoutDefault(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Definition: &config.Definition{ServerURL: "https://vault.example.com"}}
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}
