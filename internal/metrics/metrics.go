// Package metrics defines and registers all custom Prometheus metrics for
// the identity service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// ── Sign-in metrics ───────────────────────────────────────────────────────────

// SignInsTotal counts sign-in attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", or "locked"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// SignInDuration measures end-to-end sign-in latency, dominated by the
// bcrypt comparison.
// Label:
//   - result: same values as SignInsTotal
var SignInDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "signin_duration_seconds",
		Help:      "Duration of sign-in handling from lookup to token issuance.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"result"},
)

// SignInLockoutsTotal counts sign-ins rejected by the attempt limiter.
var SignInLockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signin_lockouts_total",
		Help:      "Total number of sign-ins rejected because the account was temporarily locked.",
	},
)

// ── Registration metrics ──────────────────────────────────────────────────────

// RegistrationsTotal counts successful registrations.
// Label:
//   - role: each role assigned to the new identity (one increment per role)
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful registrations, by assigned role.",
	},
	[]string{"role"},
)

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokenValidationsTotal counts token validation outcomes at the guard.
// Label:
//   - result: "valid", "malformed", "forged", or "expired"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer token validations, by outcome.",
	},
	[]string{"result"},
)
