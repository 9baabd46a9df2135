// Package metrics counts collection and delivery activity for one process.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry *prometheus.Registry

	attempts        prometheus.Counter
	deliveries      *prometheus.CounterVec
	signalFailures  *prometheus.CounterVec
	collectDuration prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fingerprint",
			Name:      "delivery_attempts_total",
			Help:      "HTTP POST attempts made by the delivery agent",
		}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fingerprint",
			Name:      "deliveries_total",
			Help:      "Finished delivery sequences by result",
		}, []string{"result"}),
		signalFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fingerprint",
			Name:      "signal_failures_total",
			Help:      "Collectors that returned a sentinel instead of a value",
		}, []string{"signal"}),
		collectDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fingerprint",
			Name:      "collect_duration_seconds",
			Help:      "Wall time of one collection pass",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
	m.registry.MustRegister(m.attempts, m.deliveries, m.signalFailures, m.collectDuration)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) AttemptMade() {
	if m == nil {
		return
	}
	m.attempts.Inc()
}

func (m *Metrics) DeliveryFinished(delivered bool) {
	if m == nil {
		return
	}
	result := "abandoned"
	if delivered {
		result = "delivered"
	}
	m.deliveries.WithLabelValues(result).Inc()
}

func (m *Metrics) SignalFailed(signal string) {
	if m == nil {
		return
	}
	m.signalFailures.WithLabelValues(signal).Inc()
}

func (m *Metrics) ObserveCollect(d time.Duration) {
	if m == nil {
		return
	}
	m.collectDuration.Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
