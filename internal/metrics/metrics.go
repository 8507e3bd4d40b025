// Package metrics records client-side counters for API traffic and
// authentication flows. Metrics are process-local; `hubctl doctor
// --metrics` dumps them for debugging slow or failing sessions.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal    *prometheus.CounterVec
	apiUnauthorized     prometheus.Counter
	apiRequestDuration  *prometheus.HistogramVec
	authFlowTotal       *prometheus.CounterVec

	metricsOnce sync.Once
)

// Client provides methods to record client metrics. Metrics are lazily
// registered on first use.
type Client struct{}

// NewClient creates a metrics recorder.
func NewClient() *Client {
	initMetrics()
	return &Client{}
}

// initMetrics registers all Prometheus metrics exactly once.
func initMetrics() {
	metricsOnce.Do(func() {
		apiRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hubctl_api_requests_total",
				Help: "Total number of API requests by method and status class",
			},
			[]string{"method", "status_class"},
		)

		apiUnauthorized = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hubctl_api_unauthorized_total",
				Help: "Total number of 401 responses received",
			},
		)

		apiRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hubctl_api_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		)

		authFlowTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hubctl_auth_flow_total",
				Help: "Authentication flow outcomes by flow type",
			},
			[]string{"flow", "outcome"},
		)
	})
}

// RecordRequest records one API request outcome.
func (c *Client) RecordRequest(method string, statusClass string, seconds float64) {
	apiRequestsTotal.WithLabelValues(method, statusClass).Inc()
	apiRequestDuration.WithLabelValues(method).Observe(seconds)
}

// RecordUnauthorized records a 401 response.
func (c *Client) RecordUnauthorized() {
	apiUnauthorized.Inc()
}

// RecordAuthFlow records the outcome of an authentication flow.
// flow is one of login, signup, oidc, magic_link, password_reset;
// outcome is success or failure.
func (c *Client) RecordAuthFlow(flow, outcome string) {
	authFlowTotal.WithLabelValues(flow, outcome).Inc()
}

// StatusClass converts an HTTP status code to its class label ("2xx").
func StatusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}

// Dump writes all gathered hubctl metrics to w in a plain name=value
// listing, used by the doctor command.
func Dump(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var lines []string
	for _, fam := range families {
		name := fam.GetName()
		if len(name) < 7 || name[:7] != "hubctl_" {
			continue
		}
		for _, m := range fam.GetMetric() {
			label := ""
			for _, lp := range m.GetLabel() {
				if label != "" {
					label += ","
				}
				label += lp.GetName() + "=" + lp.GetValue()
			}
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			if label != "" {
				lines = append(lines, fmt.Sprintf("%s{%s} %g", name, label, value))
			} else {
				lines = append(lines, fmt.Sprintf("%s %g", name, value))
			}
		}
	}

	sort.Strings(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
