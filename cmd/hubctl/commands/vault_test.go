package commands

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaulthub/hubctl/internal/api"
	"github.com/vaulthub/hubctl/internal/config"
)

func loggedInConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	cfg := testConfig(t, serverURL)
	require.NoError(t, cfg.Load())
	require.NoError(t, os.WriteFile(cfg.TokenFilePath(), []byte("sess_vault"), 0o600))
	return cfg
}

func TestVaultListCommand(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/vaults", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
		_ = json.NewEncoder(w).Encode(api.VaultsResponse{
			Vaults: []api.VaultLite{
				{UniqueID: "v-1", Name: "prod-db", Category: "database", UpdatedAt: time.Now()},
			},
			TotalCount: 1,
			PageSize:   5,
			PageIndex:  1,
		})
	}))
	defer server.Close()

	cfg := loggedInConfig(t, server.URL)
	cmd := NewVaultCommand(cfg)
	cmd.SetArgs([]string{"list", "--page-size", "5"})
	require.NoError(t, cmd.Execute())
}

func TestVaultDeleteCommand_SkipConfirm(t *testing.T) {
	t.Parallel()

	deleted := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/vaults/v-1", r.URL.Path)
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg := loggedInConfig(t, server.URL)
	cmd := NewVaultCommand(cfg)
	cmd.SetArgs([]string{"delete", "v-1", "--yes"})
	require.NoError(t, cmd.Execute())
	assert.True(t, deleted)
}

func TestVaultCreateCommand_RequiresName(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when validation fails locally")
	}))
	defer server.Close()

	cfg := loggedInConfig(t, server.URL)
	cmd := NewVaultCommand(cfg)
	cmd.SetArgs([]string{"create", "--value", "s3cret"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}
