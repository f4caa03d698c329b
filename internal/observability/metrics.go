package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "onboarding_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// CacheHits tracks cache hits by operation and layer
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_cache_hits_total",
			Help: "Number of cache hits",
		},
		[]string{"operation", "layer"},
	)

	// CNPJLookups tracks lookup outcomes and the source that answered
	CNPJLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_cnpj_lookups_total",
			Help: "Number of CNPJ lookups by outcome and source",
		},
		[]string{"outcome", "source"},
	)

	// CNPJLookupDuration tracks end-to-end lookup latency
	CNPJLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "onboarding_cnpj_lookup_duration_seconds",
			Help:    "Duration of CNPJ lookups in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		},
		[]string{"outcome"},
	)

	// RegistrationSubmissions tracks submission attempts by result
	RegistrationSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_registration_submissions_total",
			Help: "Number of registration submissions",
		},
		[]string{"account_type", "status"},
	)

	// DocumentUploads tracks per-slot uploads
	DocumentUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_document_uploads_total",
			Help: "Number of document uploads",
		},
		[]string{"field", "status"},
	)

	// DatabaseOperations tracks document store operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_database_operations_total",
			Help: "Number of database operations",
		},
		[]string{"operation", "status"},
	)

	// AuditQueueDepth tracks buffered audit entries per stream
	AuditQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "onboarding_audit_queue_depth",
			Help: "Number of audit entries waiting to be written",
		},
		[]string{"stream"},
	)

	// AuditQueueCapacity tracks the audit buffer size per stream
	AuditQueueCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "onboarding_audit_queue_capacity",
			Help: "Capacity of the audit entry buffer",
		},
		[]string{"stream"},
	)

	// AuditEntriesDropped tracks audit entries discarded because the buffer was full
	AuditEntriesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_audit_entries_dropped_total",
			Help: "Number of audit entries dropped on a full buffer",
		},
		[]string{"stream"},
	)

	// ActiveConnections tracks in-flight HTTP requests
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "onboarding_active_connections",
			Help: "Number of active connections",
		},
	)
)
