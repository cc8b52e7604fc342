// Package metrics exposes Prometheus collectors for decomposition calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "decomposer"

type Metrics struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decompositions_total",
			Help:      "Total number of decompose_question invocations by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decomposition_duration_seconds",
			Help:      "Duration of decompose_question invocations.",
			// reasoning-effort completions routinely take minutes
			Buckets: []float64{0.1, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.invocations,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveDecomposition records one invocation.
func (m *Metrics) ObserveDecomposition(outcome string, duration time.Duration) {
	m.invocations.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
