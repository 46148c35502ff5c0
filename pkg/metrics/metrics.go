package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters exposed on /metrics
type Metrics struct {
	registry    *prometheus.Registry
	Mutations   *prometheus.CounterVec
	Generations *prometheus.CounterVec
	Exports     *prometheus.CounterVec
}

// New registers the w2w counters on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "w2w_mutations_total",
			Help: "Roster mutations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "w2w_schedule_generations_total",
			Help: "Schedule generation attempts by outcome.",
		}, []string{"outcome"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "w2w_schedule_exports_total",
			Help: "Spreadsheet exports by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.Mutations, m.Generations, m.Exports)
	return m
}

// Outcome labels an error as "ok" or "error"
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordMutation counts one roster mutation. Safe on a nil receiver.
func (m *Metrics) RecordMutation(op string, err error) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op, Outcome(err)).Inc()
}

// RecordGeneration counts one generation attempt
func (m *Metrics) RecordGeneration(outcome string) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(outcome).Inc()
}

// RecordExport counts one export attempt
func (m *Metrics) RecordExport(outcome string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
