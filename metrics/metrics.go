// Package metrics exposes Prometheus collectors for the proxy.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// LatencyBuckets covers request and completion latencies from 100ms to 120s.
var LatencyBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Upstream outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeHTTPError = "http_error"
	OutcomeTransport = "transport_error"
	OutcomeMalformed = "malformed_response"
)

var (
	// RequestsTotal counts inbound requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perplexity_proxy_requests_total",
			Help: "Inbound requests",
		},
		[]string{"method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "perplexity_proxy_request_duration_seconds",
			Help:    "Inbound request duration",
			Buckets: LatencyBuckets,
		},
		[]string{"method"},
	)

	// UpstreamRequestsTotal counts calls to the completions API by outcome.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perplexity_proxy_upstream_requests_total",
			Help: "Upstream requests",
		},
		[]string{"outcome"},
	)

	UpstreamLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "perplexity_proxy_upstream_latency_seconds",
			Help:    "Upstream latency",
			Buckets: LatencyBuckets,
		},
	)

	// UpstreamTokensTotal counts tokens reported by the upstream usage block.
	UpstreamTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perplexity_proxy_upstream_tokens_total",
			Help: "Token count",
		},
		[]string{"direction"},
	)

	// MissingCredentialTotal counts requests refused because no API key is set.
	MissingCredentialTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "perplexity_proxy_missing_credential_total",
			Help: "Requests refused for a missing API key",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		UpstreamRequestsTotal,
		UpstreamLatency,
		UpstreamTokensTotal,
		MissingCredentialTotal,
	)
}
