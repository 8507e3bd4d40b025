package tokenstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulthub/hubctl/internal/tokenstore"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := tokenstore.NewMemory()

	_, err := store.Get()
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)

	require.NoError(t, store.Set("sess_abc123"))
	token, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "sess_abc123", token)

	require.NoError(t, store.Clear())
	_, err = store.Get()
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	assert.Equal(t, "memory", store.Source())
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "token")
	store := tokenstore.NewFile(path)

	_, err := store.Get()
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)

	require.NoError(t, store.Set("sess_4f9a7c2e11d84b"))

	token, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "sess_4f9a7c2e11d84b", token)

	// A second store over the same path sees the persisted token.
	reopened := tokenstore.NewFile(path)
	token, err = reopened.Get()
	require.NoError(t, err)
	assert.Equal(t, "sess_4f9a7c2e11d84b", token)
}

func TestFileStorePermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token")
	store := tokenstore.NewFile(path)
	require.NoError(t, store.Set("sess_abc123"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreClear(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token")
	store := tokenstore.NewFile(path)
	require.NoError(t, store.Set("sess_abc123"))
	require.NoError(t, store.Clear())

	_, err := store.Get()
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)

	// Clearing again is a no-op.
	require.NoError(t, store.Clear())
}

func TestFileStoreSetOverwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token")
	store := tokenstore.NewFile(path)
	require.NoError(t, store.Set("sess_first"))
	require.NoError(t, store.Set("sess_second"))

	token, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "sess_second", token)
}
