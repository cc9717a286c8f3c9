package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Wallet metrics
	WalletsCreated    prometheus.Counter
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationAmount   prometheus.Histogram
	OperationRetries  prometheus.Counter
	InsufficientFunds prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_wallets_created_total",
			Help: "Total number of wallets created",
		}),
		Operations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_operations_total",
				Help: "Total wallet operations by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		OperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_operation_duration_seconds",
				Help:    "Duration of wallet operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		OperationAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gowallet_operation_amount",
			Help:    "Operation amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		OperationRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_operation_retries_total",
			Help: "Total wallet operation retries after transient store errors",
		}),
		InsufficientFunds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_insufficient_funds_total",
			Help: "Total withdrawals rejected for insufficient funds",
		}),
	}
}
