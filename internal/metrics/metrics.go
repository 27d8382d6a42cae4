// Package metrics exposes engine operation counters and latencies to
// Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sheetlens/internal/errors"
)

const (
	// OutcomeSuccess labels operations that returned error code 0.
	OutcomeSuccess = "success"
	// OutcomeError labels every other operation.
	OutcomeError = "error"
)

// Recorder counts engine operations by outcome and times them. It satisfies
// analytics.Observer.
type Recorder struct {
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewRecorder builds unregistered collectors under namespace
func NewRecorder(namespace string) *Recorder {
	return &Recorder{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of engine operations, partitioned by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operation_failures_total",
				Help:      "Failed engine operations, partitioned by error code name.",
			},
			[]string{"operation", "code"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_seconds",
				Help:      "Engine operation latency in seconds.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
	}
}

// Register attaches the recorder's collectors to reg. Collectors that are
// already registered are skipped.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		r.operations,
		r.failures,
		r.latency,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveOperation records one operation outcome and its duration
func (r *Recorder) ObserveOperation(operation string, code errors.Code, elapsed time.Duration) {
	outcome := OutcomeSuccess
	if code != errors.CodeOK {
		outcome = OutcomeError
		r.failures.WithLabelValues(operation, code.String()).Inc()
	}
	r.operations.WithLabelValues(operation, outcome).Inc()
	if elapsed < 0 {
		elapsed = 0
	}
	r.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}
