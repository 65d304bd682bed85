package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotsApplied counts collection snapshots applied to the dashboard.
	// Labels: source (subscription, ack)
	SnapshotsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "controller",
			Name:      "snapshots_applied_total",
			Help:      "Total number of project snapshots applied",
		},
		[]string{"source"},
	)

	// Writes counts store writes.
	// Labels: op, result (success, error, rejected)
	Writes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "controller",
			Name:      "writes_total",
			Help:      "Total number of project writes by operation and result",
		},
		[]string{"op", "result"},
	)

	WriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dashboard",
			Subsystem: "controller",
			Name:      "write_duration_seconds",
			Help:      "Duration of project writes in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	SubscriptionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "controller",
			Name:      "subscription_errors_total",
			Help:      "Total number of project subscription failures",
		},
	)

	ProjectsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "dashboard",
			Subsystem: "controller",
			Name:      "projects",
			Help:      "Number of projects in the current snapshot",
		},
	)

	// DisplayStatus is 1 for the current status and 0 for all others.
	DisplayStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "dashboard",
			Subsystem: "controller",
			Name:      "status",
			Help:      "Current dashboard display status (1=current)",
		},
		[]string{"status"},
	)
)

func recordStatus(current Status) {
	for _, s := range allStatuses {
		v := 0.0
		if s == current {
			v = 1
		}
		DisplayStatus.WithLabelValues(string(s)).Set(v)
	}
}
