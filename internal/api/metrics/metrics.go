// Package metrics defines the custom Prometheus metrics of the property-match
// API. It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "propertymatch"

// ── Search metrics ────────────────────────────────────────────────────────────

// PropertySearchesTotal counts property searches.
// Label:
//   - mode: "saved" (saved filter) or "location" (location override)
var PropertySearchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "property_searches_total",
		Help:      "Total number of property searches, by mode.",
	},
	[]string{"mode"},
)

// PropertySearchDuration measures a search from compile to the last decoded page.
var PropertySearchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "property_search_duration_seconds",
		Help:      "Duration of property searches.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"mode"},
)

// SelectionsTotal counts liked and disliked listings.
var SelectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "selections_total",
		Help:      "Total number of property selections, by status.",
	},
	[]string{"status"},
)

// ── Invitation metrics ────────────────────────────────────────────────────────

// InvitationsTotal counts invitation lifecycle operations.
// Label:
//   - action: "created", "accepted", "rejected" or "deleted"
var InvitationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitations_total",
		Help:      "Total number of invitation lifecycle operations, by action.",
	},
	[]string{"action"},
)

// AccessDeniedTotal counts reads refused by the access gate.
var AccessDeniedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of client selection reads refused for lack of an accepted invitation.",
	},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// AuthTotal counts identity operations.
// Labels:
//   - operation: "register", "login", "verify", "forgot_password"
//   - result: "ok" or "error"
var AuthTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_operations_total",
		Help:      "Total number of identity operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Sweep metrics ─────────────────────────────────────────────────────────────

// SweepRunsTotal counts sweep executions.
// Label:
//   - result: "ok", "error" or "skipped" (lock held elsewhere)
var SweepRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_runs_total",
		Help:      "Total number of sweep runs, by result.",
	},
	[]string{"result"},
)

// SweepPurgedTotal counts documents removed by the sweep.
// Label:
//   - collection: "properties", "comments" or "selections"
var SweepPurgedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_purged_total",
		Help:      "Total number of documents purged by the sweep, by collection.",
	},
	[]string{"collection"},
)

// Result returns the result label for err.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
