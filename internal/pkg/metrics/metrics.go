// Package metrics defines and registers all custom Prometheus metrics of the
// Be The Hero web front-end. It is the single source of truth for metric
// names, labels and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bethehero_web"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts requests served to browsers.
// Labels:
//   - method: HTTP method
//   - route: the matched echo route (e.g. "/incidents/more")
//   - code: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served to browsers.",
	},
	[]string{"method", "route", "code"},
)

// HTTPRequestDuration measures browser-facing request latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests served to browsers.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Upstream API metrics ──────────────────────────────────────────────────────

// UpstreamRequestsTotal counts calls to the remote REST API.
// Labels:
//   - method: HTTP method
//   - resource: resource path with identifiers collapsed (e.g. "incidents/:id")
//   - code: status code, or "error" on transport failure
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests issued to the remote API.",
	},
	[]string{"method", "resource", "code"},
)

// UpstreamRequestDuration measures remote API latency for answered requests.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to the remote API that received a response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "resource"},
)

// ── Feed metrics ──────────────────────────────────────────────────────────────

// FeedPageLoadsTotal counts incident feed page fetches.
// Label:
//   - outcome: "more" (another page exists), "exhausted", "error" or "dropped"
//     (the feed was torn down before the response arrived)
var FeedPageLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_page_loads_total",
		Help:      "Total number of incident feed page fetches, by outcome.",
	},
	[]string{"outcome"},
)

// FeedLoadSuppressedTotal counts load-more triggers ignored because the feed
// was loading or exhausted.
var FeedLoadSuppressedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_load_suppressed_total",
		Help:      "Total number of load-more triggers ignored, by feed state.",
	},
	[]string{"state"},
)

// ── Form metrics ──────────────────────────────────────────────────────────────

// FormSubmissionsTotal counts form submissions.
// Labels:
//   - form: "login", "register" or "incident"
//   - outcome: "success", "invalid", "failed" or "busy"
var FormSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "form_submissions_total",
		Help:      "Total number of form submissions, by form and outcome.",
	},
	[]string{"form", "outcome"},
)

// ActiveWorkspaces tracks the number of browser workspaces held in memory.
var ActiveWorkspaces = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_workspaces",
		Help:      "Current number of browser workspaces held in memory.",
	},
)
