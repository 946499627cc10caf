package services

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Quotes        *prometheus.CounterVec
	InsurerPrices *prometheus.CounterVec
	QuoteDuration prometheus.Histogram
	Reloads       *prometheus.CounterVec
	HistoryErrors prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soat",
			Name:      "quotes_total",
			Help:      "Quotes issued, by role.",
		}, []string{"role"}),
		InsurerPrices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soat",
			Name:      "insurer_results_total",
			Help:      "Insurer results, by insurer and outcome (priced, campaign, unavailable).",
		}, []string{"insurer", "outcome"}),
		QuoteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "soat",
			Name:      "quote_duration_seconds",
			Help:      "Time spent matching a quote.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soat",
			Name:      "table_reloads_total",
			Help:      "Tariff table reloads, by status.",
		}, []string{"status"}),
		HistoryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "soat",
			Name:      "history_errors_total",
			Help:      "Quotes that could not be written to history.",
		}),
	}
	m.registry.MustRegister(
		m.Quotes,
		m.InsurerPrices,
		m.QuoteDuration,
		m.Reloads,
		m.HistoryErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
