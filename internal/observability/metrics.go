package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom application metrics.
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Auth Metrics
	UsersRegisteredTotal prometheus.Counter
	LoginAttemptsTotal   *prometheus.CounterVec
	SessionsActive       prometheus.Gauge

	// Bill Metrics
	BillsCreatedTotal  prometheus.Counter
	BillsPaidTotal     prometheus.Counter
	BillsReopenedTotal prometheus.Counter
	CSVExportsTotal    prometheus.Counter

	// Database Metrics
	DBConnectionsOpen  prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge

	// Cache (Redis) Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with every metric registered.
func NewMetrics() *Metrics {
	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Auth Metrics
		UsersRegisteredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "users_registered_total",
				Help: "Total number of registered users",
			},
		),

		LoginAttemptsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"}, // result: success, failed
		),

		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sessions_active",
				Help: "Approximate number of live sessions",
			},
		),

		// Bill Metrics
		BillsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bills_created_total",
				Help: "Total number of bills created",
			},
		),

		BillsPaidTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bills_paid_total",
				Help: "Total number of bills marked as paid",
			},
		),

		BillsReopenedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bills_reopened_total",
				Help: "Total number of bills reopened",
			},
		),

		CSVExportsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "csv_exports_total",
				Help: "Total number of CSV exports generated",
			},
		),

		// Database Metrics
		DBConnectionsOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_open",
				Help: "Number of open database connections",
			},
		),

		DBConnectionsInUse: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_in_use",
				Help: "Number of database connections currently in use",
			},
		),

		// Cache Metrics
		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_type"},
		),

		CacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_type"},
		),
	}
}

// GlobalMetrics is the application-wide Metrics instance.
var GlobalMetrics *Metrics

// InitMetrics initializes the global metrics. promauto registers with the
// default registry, so this must only ever run once per process.
func InitMetrics() {
	if GlobalMetrics == nil {
		GlobalMetrics = NewMetrics()
	}
}
