package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulthub/hubctl/internal/api"
	"github.com/vaulthub/hubctl/internal/auth"
	"github.com/vaulthub/hubctl/internal/tokenstore"
)

func TestBootstrapMagicFragment(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{
		meHandler: func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer ml_0123456789abcdef", r.Header.Get("Authorization"))
			okJSON(w, api.User{Email: "ops@example.com"})
		},
	}
	session, _, rec := newSession(t, fake)
	require.True(t, session.IsLoading())

	state := session.Bootstrap(context.Background(), "token=ml_0123456789abcdef&source=magic")

	assert.Equal(t, auth.StateAuthenticated, state)
	assert.False(t, session.IsLoading())
	require.Len(t, rec.successes, 1)
	assert.Contains(t, rec.successes[0], "magic link")
	assert.Equal(t, []string{auth.RouteDashboard}, rec.navigated)
}

func TestBootstrapOIDCFragment(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{
		meHandler: func(w http.ResponseWriter, r *http.Request) {
			okJSON(w, api.User{Email: "ops@example.com"})
		},
	}
	session, _, rec := newSession(t, fake)

	state := session.Bootstrap(context.Background(), "token=oidc_fedcba9876543210&source=oidc")

	assert.Equal(t, auth.StateAuthenticated, state)
	// OIDC completion is silent.
	assert.Empty(t, rec.successes)
	assert.Equal(t, []string{auth.RouteDashboard}, rec.navigated)
}

func TestBootstrapRejectedFragmentDoesNotFallBack(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{
		meHandler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	}
	session, store, rec := newSession(t, fake)

	// A stale but still valid token sits in the store; a rejected
	// one-time token must not resurrect it.
	require.NoError(t, store.Set("sess_old"))

	state := session.Bootstrap(context.Background(), "token=ml_expired0123456789&source=magic")

	assert.Equal(t, auth.StateUnauthenticated, state)
	assert.False(t, session.IsLoading())
	assert.False(t, session.IsAuthenticated())

	// Exactly one user fetch: the fragment path only.
	assert.Equal(t, 1, fake.MeCalls())

	_, err := store.Get()
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)

	require.Len(t, rec.errors, 1)
	assert.Contains(t, rec.errors[0], "magic link")
}

func TestBootstrapRejectedOIDCFragmentSilent(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{
		meHandler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	}
	session, _, rec := newSession(t, fake)

	state := session.Bootstrap(context.Background(), "token=oidc_expired012345678&source=oidc")

	assert.Equal(t, auth.StateUnauthenticated, state)
	assert.Empty(t, rec.errors)
}

func TestBootstrapStoredToken(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{
		meHandler: func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer sess_stored", r.Header.Get("Authorization"))
			okJSON(w, api.User{Email: "ops@example.com"})
		},
	}
	session, store, rec := newSession(t, fake)
	require.NoError(t, store.Set("sess_stored"))

	state := session.Bootstrap(context.Background(), "")

	assert.Equal(t, auth.StateAuthenticated, state)
	assert.False(t, session.IsLoading())
	assert.Equal(t, "ops@example.com", session.User().Email)
	// Resuming a stored session stays where the user is.
	assert.Empty(t, rec.navigated)
	assert.Empty(t, rec.successes)
}

func TestBootstrapStoredTokenRejected(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{
		meHandler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	}
	session, store, _ := newSession(t, fake)
	require.NoError(t, store.Set("sess_revoked"))

	state := session.Bootstrap(context.Background(), "")

	assert.Equal(t, auth.StateUnauthenticated, state)
	assert.False(t, session.IsLoading())
	_, err := store.Get()
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestBootstrapNoToken(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{}
	session, _, _ := newSession(t, fake)

	state := session.Bootstrap(context.Background(), "")

	assert.Equal(t, auth.StateUnauthenticated, state)
	assert.False(t, session.IsLoading())
	assert.Equal(t, 0, fake.MeCalls())
}

func TestBootstrapIgnoresIncompleteFragment(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{
		meHandler: func(w http.ResponseWriter, r *http.Request) {
			okJSON(w, api.User{Email: "ops@example.com"})
		},
	}
	session, store, _ := newSession(t, fake)
	require.NoError(t, store.Set("sess_stored"))

	// token without source is not an authentication intent; the
	// stored-token path runs instead.
	state := session.Bootstrap(context.Background(), "token=ml_0123456789abcdef")

	assert.Equal(t, auth.StateAuthenticated, state)
	assert.Equal(t, 1, fake.MeCalls())
}
