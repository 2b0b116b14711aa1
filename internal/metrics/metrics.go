package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recommendations"

// Request outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeCacheHit      = "cache_hit"
	OutcomeMissingUserID = "missing_user_id"
	OutcomeInvalidUserID = "invalid_user_id"
	OutcomeError         = "error"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	requests           *prometheus.CounterVec
	invocationDuration *prometheus.HistogramVec
	matrixRows         prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: createCounterVec(
			"requests_total",
			"Recommendation requests by outcome.",
			[]string{"outcome"},
		),
		invocationDuration: createHistogramVec(
			"endpoint_invocation_duration_seconds",
			"Latency of SageMaker endpoint invocations.",
			[]string{"status"},
			prometheus.DefBuckets,
		),
		matrixRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "embedding_matrix_rows",
			Help:      "Number of users in the loaded embedding matrix.",
		}),
	}
	m.registry.MustRegister(m.requests, m.invocationDuration, m.matrixRows)
	return m
}

func (m *Metrics) ObserveRequest(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveInvocation(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.invocationDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (m *Metrics) SetMatrixRows(rows int) {
	if m == nil {
		return
	}
	m.matrixRows.Set(float64(rows))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}
