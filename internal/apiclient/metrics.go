package apiclient

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK           = "ok"
	outcomeClientError  = "client_error"
	outcomeServerError  = "server_error"
	outcomeNetworkError = "network_error"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for backend calls.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the backend call metrics once per process.
//
// Metrics:
//   - taskfolio_backend_requests_total{operation,outcome}
//   - taskfolio_backend_request_duration_seconds{operation}
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "taskfolio_backend_requests_total",
					Help: "Total number of requests sent to the REST backend",
				},
				[]string{"operation", "outcome"},
			),
			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "taskfolio_backend_request_duration_seconds",
					Help:    "Duration of REST backend requests in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"operation"},
			),
		}
	})
	return globalMetrics
}

func (m *Metrics) observe(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(operation, outcome).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func outcomeFor(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return outcomeServerError
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return outcomeOK
	default:
		return outcomeClientError
	}
}
