// Package metrics defines all custom Prometheus metrics for the Xerpia
// console client. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry via promauto at package
// load; recording is best-effort and never blocks or fails the main flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "xerpia"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RefreshTotal counts token refresh calls actually sent to the refresh
// endpoint. With the single-flight protocol this is at most one per burst
// of concurrent 401s.
// Label:
//   - result: "success" or "failure"
var RefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of token refresh calls, by result.",
	},
	[]string{"result"},
)

// ── Request metrics ───────────────────────────────────────────────────────────

// RequestRetriesTotal counts requests replayed with a fresh token after a 401.
var RequestRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_retries_total",
		Help:      "Total number of requests replayed after a token refresh.",
	},
)

// RequestErrorsTotal counts failed API requests by error category.
// Label:
//   - category: taxonomy value (e.g. "not_found", "server_error")
var RequestErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_errors_total",
		Help:      "Total number of failed API requests, by error category.",
	},
	[]string{"category"},
)

// RequestDuration measures end-to-end API request latency.
// Label:
//   - method: HTTP method of the request
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests from send to decoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)
