package metrics_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulthub/hubctl/internal/metrics"
)

func TestStatusClass(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2xx", metrics.StatusClass(200))
	assert.Equal(t, "3xx", metrics.StatusClass(302))
	assert.Equal(t, "4xx", metrics.StatusClass(429))
	assert.Equal(t, "5xx", metrics.StatusClass(503))
}

func TestRecordAndDump(t *testing.T) {
	client := metrics.NewClient()
	client.RecordRequest("POST", "2xx", 0.12)
	client.RecordUnauthorized()
	client.RecordAuthFlow("login", "success")

	var buf bytes.Buffer
	require.NoError(t, metrics.Dump(&buf))

	out := buf.String()
	assert.Contains(t, out, "hubctl_api_requests_total{method=POST,status_class=2xx}")
	assert.Contains(t, out, "hubctl_api_unauthorized_total")
	assert.Contains(t, out, "hubctl_auth_flow_total{flow=login,outcome=success}")
}

func TestNewClientIsIdempotent(t *testing.T) {
	// promauto panics on duplicate registration; NewClient must be safe
	// to call repeatedly.
	_ = metrics.NewClient()
	_ = metrics.NewClient()
}
