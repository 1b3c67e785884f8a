package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	AccountsOpened     prometheus.Counter
	TransfersCompleted prometheus.Counter
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram
	TransferErrors     *prometheus.CounterVec

	// API metrics
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	IdempotentReplays prometheus.Counter

	// Redis metrics
	RedisOperations *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished *prometheus.CounterVec
	OutboxErrors    prometheus.Counter
}

// New creates all metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		AccountsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "cofundable_accounts_opened_total",
			Help: "Total number of share accounts opened",
		}),
		TransfersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "cofundable_transfers_completed_total",
			Help: "Total number of committed share transfers",
		}),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cofundable_transfer_duration_seconds",
			Help:    "Duration of share transfers, retries included",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cofundable_transfer_amount",
			Help:    "Transferred share amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cofundable_transfer_errors_total",
				Help: "Total number of failed transfers by type",
			},
			[]string{"error_type"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cofundable_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cofundable_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "cofundable_idempotent_replays_total",
			Help: "Responses served from the idempotency store",
		}),

		// Redis metrics
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cofundable_redis_operations_total",
				Help: "Total Redis cache operations by outcome",
			},
			[]string{"operation", "result"},
		),

		// Authentication metrics
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cofundable_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cofundable_rate_limit_hits_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"path"},
		),

		// Outbox metrics
		OutboxPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cofundable_outbox_published_total",
				Help: "Outbox events published by type",
			},
			[]string{"event_type"},
		),
		OutboxErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "cofundable_outbox_errors_total",
			Help: "Outbox events that failed to publish",
		}),
	}
}
