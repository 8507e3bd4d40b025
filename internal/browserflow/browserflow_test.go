package browserflow_test

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulthub/hubctl/internal/browserflow"
	"github.com/vaulthub/hubctl/internal/logging"
)

func newFlow(t *testing.T) *browserflow.Flow {
	t.Helper()
	flow, err := browserflow.Listen(logging.NewWithWriter(io.Discard, false, true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = flow.Close() })
	return flow
}

func TestRedirectURIIsLoopback(t *testing.T) {
	t.Parallel()

	flow := newFlow(t)
	uri, err := url.Parse(flow.RedirectURI())
	require.NoError(t, err)
	assert.Equal(t, "http", uri.Scheme)
	assert.Equal(t, "127.0.0.1", uri.Hostname())
	assert.Equal(t, "/callback", uri.Path)
}

func TestCallbackServesFragmentRelay(t *testing.T) {
	t.Parallel()

	flow := newFlow(t)
	resp, err := http.Get(flow.RedirectURI())
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The landing page must re-submit the fragment as a query
	// parameter, since fragments never reach a server.
	assert.Contains(t, string(body), "location.hash")
	assert.Contains(t, string(body), "/done")
}

func TestWaitReceivesFragment(t *testing.T) {
	t.Parallel()

	flow := newFlow(t)

	fragment := "token=oidc_fedcba9876543210&source=oidc"
	doneURL := strings.Replace(flow.RedirectURI(), "/callback", "/done", 1) +
		"?fragment=" + url.QueryEscape(fragment)
	resp, err := http.Get(doneURL)
	require.NoError(t, err)
	resp.Body.Close()

	got, err := flow.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fragment, got)
}

func TestWaitHonorsContext(t *testing.T) {
	t.Parallel()

	flow := newFlow(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := flow.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitAfterClose(t *testing.T) {
	t.Parallel()

	flow := newFlow(t)
	require.NoError(t, flow.Close())

	_, err := flow.Wait(context.Background())
	assert.ErrorIs(t, err, browserflow.ErrClosed)
}
