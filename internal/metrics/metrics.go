// Package metrics exposes sentinel's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesTotal counts completed live evaluation cycles.
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_evaluation_cycles_total",
		Help: "Completed live evaluation cycles.",
	})

	// CycleErrors counts evaluation cycles aborted by a cycle-level failure.
	CycleErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_evaluation_cycle_errors_total",
		Help: "Evaluation cycles aborted by a history fetch failure.",
	})

	// CycleDuration observes wall time per evaluation cycle.
	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sentinel_evaluation_cycle_duration_seconds",
		Help:    "Wall time per live evaluation cycle.",
		Buckets: prometheus.DefBuckets,
	})

	// ItemsEvaluated counts individual item evaluations by monitoring type.
	ItemsEvaluated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_items_evaluated_total",
		Help: "Item evaluations by monitoring type.",
	}, []string{"monitoring_type"})

	// AlertsCreated counts persisted alerts by monitoring and alert type.
	AlertsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_alerts_created_total",
		Help: "Alerts persisted, by monitoring type and alert type.",
	}, []string{"monitoring_type", "alert_type"})

	// AlertsAutoResolved counts alerts treated by the auto-resolver.
	AlertsAutoResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_alerts_auto_resolved_total",
		Help: "Alerts auto-resolved after consecutive clean readings.",
	}, []string{"monitoring_type", "alert_type"})

	// PersistErrors counts failed alert writes after retry.
	PersistErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_alert_persist_errors_total",
		Help: "Alert persistence failures after bounded retry.",
	})
)
