// Package metrics defines and registers all custom Prometheus metrics for the
// health-exchange API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "healthexchange"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts successful logins by role.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by role.",
	},
	[]string{"role"},
)

// SessionHydrationFailures counts persisted sessions that could not be read
// back (corrupt blob, unknown schema version, storage error). Each failure
// degrades to an anonymous session.
var SessionHydrationFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_hydration_failures_total",
		Help:      "Total number of session hydration attempts that fell back to anonymous.",
	},
)

// SessionPersistFailures counts write-through failures. The in-memory
// identity stays authoritative when this fires.
var SessionPersistFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_persist_failures_total",
		Help:      "Total number of failed session persistence writes.",
	},
)

// GateDecisionsTotal counts route-gate verdicts.
// Label:
//   - action: "allow", "redirect", or "suspend"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of route gate decisions, by action.",
	},
	[]string{"action"},
)

// ── Record-sharing metrics ────────────────────────────────────────────────────

// SharesCreatedTotal counts profiles shared with a practitioner/organisation.
var SharesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shares_created_total",
		Help:      "Total number of shared health profiles created.",
	},
)

// ShareDuplicateChecks counts duplicate-share guard outcomes.
// Label:
//   - result: "hit" (duplicate, rejected) or "miss" (new share)
var ShareDuplicateChecks = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "share_duplicate_checks_total",
		Help:      "Total number of duplicate-share guard checks, by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Loan metrics ──────────────────────────────────────────────────────────────

// LoansCreatedTotal counts loan applications by computed risk band.
var LoansCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_created_total",
		Help:      "Total number of loan applications, by risk band.",
	},
	[]string{"risk"},
)

// LoanStatusChangesTotal counts provider and patient status transitions.
var LoanStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loan_status_changes_total",
		Help:      "Total number of loan status transitions, by resulting status.",
	},
	[]string{"status"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker
// channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
