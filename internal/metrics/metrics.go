// Package metrics exposes Prometheus collectors for the consistency engine.
//
// Secondary steps of an orchestrated mutation (mirroring a transaction,
// synchronizing budget spend) are best-effort: their failures are swallowed
// rather than rolled back, so these counters are the only place such drift
// becomes visible. Alert on them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MirrorFailures counts mirrored-transaction writes or cleanups that
	// failed after the primary mutation had already committed.
	MirrorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billfold_mirror_failures_total",
		Help: "Suppressed mirrored-transaction write/cleanup failures, by operation.",
	}, []string{"operation"})

	// BudgetSyncFailures counts budget delta applications that failed and
	// were suppressed.
	BudgetSyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billfold_budget_sync_failures_total",
		Help: "Suppressed budget delta application failures.",
	})

	// BudgetSyncApplied counts budgets actually touched by delta
	// applications.
	BudgetSyncApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billfold_budget_sync_applied_total",
		Help: "Budgets updated by delta applications.",
	})
)
