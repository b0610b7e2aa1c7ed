// Package metrics defines all custom Prometheus metrics for the SkillTrust
// portal. It is the single source of truth for metric names, labels and help
// strings; HTTP-level request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skilltrust"

// ── Upstream API metrics ─────────────────────────────────────────────────────

// UpstreamRequestDuration measures marketplace API round trips.
// Labels:
//   - endpoint: logical endpoint name (e.g. "login", "verifications")
//   - outcome: "ok" or the error class ("validation", "auth", "conflict",
//     "network", "upstream")
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of marketplace API calls, by endpoint and outcome.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "outcome"},
)

// UpstreamErrorsTotal counts classified marketplace API failures.
var UpstreamErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Total marketplace API failures, by endpoint and error class.",
	},
	[]string{"endpoint", "class"},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// SessionOpsTotal counts session manager operations.
// Labels:
//   - op: "restore", "login", "register", "logout", "update_profile"
//   - outcome: "ok", "denied", "error"
var SessionOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_operations_total",
		Help:      "Total session manager operations, by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// ── View cache metrics ───────────────────────────────────────────────────────

// ViewCacheTotal counts view cache decisions.
// Label:
//   - result: "hit", "miss", or "stale_drop" (a superseded load whose result
//     was discarded in favour of a newer one)
var ViewCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_cache_total",
		Help:      "Total view cache lookups, by result (hit/miss/stale_drop).",
	},
	[]string{"result"},
)

// ── Guard metrics ────────────────────────────────────────────────────────────

// GuardRedirectsTotal counts navigations turned away by the route guard.
var GuardRedirectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total unauthenticated requests redirected to the login page.",
	},
)
