package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrorsTotal tracks classified errors per taxonomy type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_errors_total",
			Help: "Total number of classified errors",
		},
		[]string{"type"},
	)

	// RetriesTotal tracks retry attempts executed by the orchestrator
	RetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_retries_total",
			Help: "Total number of retry attempts",
		},
	)

	// RetriesExhaustedTotal tracks retry chains that hit the attempt budget
	RetriesExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_retries_exhausted_total",
			Help: "Total number of retry chains that exhausted their budget",
		},
	)

	// NotificationsTotal tracks notifications emitted per type
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_notifications_total",
			Help: "Total number of notifications dispatched",
		},
		[]string{"type"},
	)

	// ProbeLatency tracks liveness probe round-trip time
	ProbeLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentinel_probe_latency_seconds",
			Help:    "Connectivity probe latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ConnectivityOnline reports the current online state (1 = online)
	ConnectivityOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_connectivity_online",
			Help: "Whether the compute API is currently reachable",
		},
	)

	// ReportsExportedTotal tracks privacy-safe report exports
	ReportsExportedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_reports_exported_total",
			Help: "Total number of exported error reports",
		},
	)
)
