// Package metrics defines the Prometheus collectors for session ingestion
// and dashboard reads. Collectors register on the default registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agi119"

// LatencyBuckets covers in-process classification through slow SQLite
// writes, in seconds.
var LatencyBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05,
	0.1, 0.25, 0.5, 1, 2.5, 5,
}

var (
	// SessionsProcessed counts persisted sessions by classified emotion.
	SessionsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_processed_total",
			Help:      "Sessions classified and persisted, by emotion label",
		},
		[]string{"emotion"},
	)

	// RiskAlerts counts stored risk alerts by severity.
	RiskAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_alerts_total",
			Help:      "Risk alerts stored, by severity",
		},
		[]string{"severity"},
	)

	// IngestDropped counts async jobs rejected because the queue was full
	// or the engine was closed.
	IngestDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_dropped_total",
			Help:      "Async ingestion jobs dropped before processing",
		},
		[]string{"reason"},
	)

	// IngestFailed counts async jobs that errored or panicked in a worker.
	IngestFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_failed_total",
			Help:      "Async ingestion jobs that failed in a worker",
		},
	)

	// IngestQueueDepth is the number of jobs waiting for a worker.
	IngestQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ingest_queue_depth",
			Help:      "Async ingestion jobs waiting for a worker",
		},
	)

	// ProcessingLatency tracks ProcessSession wall time.
	ProcessingLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_processing_seconds",
			Help:      "Time to classify and persist one session",
			Buckets:   LatencyBuckets,
		},
	)

	// ReadFailures counts read endpoints that degraded to success:false.
	ReadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_failures_total",
			Help:      "Dashboard reads answered with success=false, by endpoint",
		},
		[]string{"endpoint"},
	)
)

// Drop reasons for IngestDropped.
const (
	DropQueueFull = "queue_full"
	DropClosed    = "closed"
)

// Read endpoints for ReadFailures.
const (
	EndpointDashboard     = "dashboard"
	EndpointMedicalReport = "medical_report"
	EndpointRiskAlerts    = "risk_alerts"
	EndpointMemoryContext = "memory_context"
)

// ObserveProcessing records the latency of one processed session.
func ObserveProcessing(start time.Time) {
	ProcessingLatency.Observe(time.Since(start).Seconds())
}
