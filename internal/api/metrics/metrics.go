// Package metrics defines and registers the custom Prometheus metrics of the
// secure items API. HTTP request metrics come from echoprometheus; this
// package only holds the domain counters recorded by the handlers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "secure_items"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionsRejectedTotal counts requests turned away by the session middleware.
// Label:
//   - reason: "missing", "unknown" or "error"
var SessionsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_rejected_total",
		Help:      "Total number of requests rejected for lack of a valid session.",
	},
	[]string{"reason"},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successfully registered users.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users registered.",
	},
)

// ── Item metrics ──────────────────────────────────────────────────────────────

// ItemMutationsTotal counts item writes.
// Labels:
//   - operation: "create", "update" or "delete"
//   - outcome: "applied", "not_found" or "forbidden"
var ItemMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "item_mutations_total",
		Help:      "Total number of item mutations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)
