package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search sources.
const (
	SourceCache   = "cache"
	SourceNetwork = "network"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal  *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
	BoardErrors    *prometheus.CounterVec
	QuotaDenials   prometheus.Counter
	MarketAverage  prometheus.Gauge
}

// NewMetrics creates metrics on a private registry so several instances can
// coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freightbench_searches_total",
				Help: "Total number of lane searches by mileage source and status",
			},
			[]string{"source", "status"},
		),
		LookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "freightbench_distance_lookup_duration_seconds",
				Help:    "Distance lookup duration in seconds by provider",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		BoardErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freightbench_board_errors_total",
				Help: "Total freight board errors by board and error code",
			},
			[]string{"board", "error_type"},
		),
		QuotaDenials: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "freightbench_quota_denials_total",
				Help: "Total searches refused because the free quota is exhausted",
			},
		),
		MarketAverage: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "freightbench_market_average_rate",
				Help: "Average rate of the most recent search",
			},
		),
	}
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// RecordSearch records a finished search.
func (m *Metrics) RecordSearch(source, status string) {
	m.SearchesTotal.WithLabelValues(source, status).Inc()
}

// ObserveLookup records the duration of a distance lookup.
func (m *Metrics) ObserveLookup(provider string, seconds float64) {
	m.LookupDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordBoardError records a freight board error metric.
func (m *Metrics) RecordBoardError(board, errorType string) {
	m.BoardErrors.WithLabelValues(board, errorType).Inc()
}

// RecordQuotaDenied counts a refused search.
func (m *Metrics) RecordQuotaDenied() {
	m.QuotaDenials.Inc()
}

// SetMarketAverage publishes the latest average rate.
func (m *Metrics) SetMarketAverage(v float64) {
	m.MarketAverage.Set(v)
}
