// Package metrics provides Prometheus metrics for Bloom.
// Counters for activity signals, earned badges, persistence faults, and
// notification outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Signals ────────────────────────────────────────────────────────────────

// SignalsProcessed tracks activity signals by counter type and mode.
var SignalsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "bloom",
	Name:      "signals_processed_total",
	Help:      "Total activity signals evaluated.",
}, []string{"type", "mode"})

// AchievementsEarned tracks newly earned achievements.
var AchievementsEarned = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "bloom",
	Name:      "achievements_earned_total",
	Help:      "Total achievements earned.",
}, []string{"category", "rarity"})

// ─── Persistence ────────────────────────────────────────────────────────────

// PersistFailures tracks swallowed ledger write failures.
var PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "bloom",
	Name:      "ledger_persist_failures_total",
	Help:      "Total failed ledger snapshot writes (in-memory state retained).",
})

// SnapshotLoadFailures tracks missing or unparsable snapshots at load.
var SnapshotLoadFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "bloom",
	Name:      "ledger_snapshot_load_failures_total",
	Help:      "Total snapshot loads that fell back to an empty ledger.",
})

// ─── Notifications ──────────────────────────────────────────────────────────

// NotificationsSent tracks delivered achievement notifications.
var NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "bloom",
	Name:      "notifications_sent_total",
	Help:      "Total notifications handed to the delivery log.",
})

// NotificationsSuppressed tracks suppressed deliveries by reason.
var NotificationsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "bloom",
	Name:      "notifications_suppressed_total",
	Help:      "Total notifications suppressed by policy or permission.",
}, []string{"reason"})
