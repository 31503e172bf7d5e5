// Package metrics defines the Prometheus collectors for index builds and
// queries and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result types recorded by SearchQueriesTotal.
const (
	ResultHit   = "hit"
	ResultEmpty = "zero_result"
	ResultError = "error"
)

// Metrics holds all Prometheus collectors for the search engine.
type Metrics struct {
	SearchQueriesTotal  *prometheus.CounterVec
	SearchLatency       prometheus.Histogram
	SearchCandidates    prometheus.Histogram
	SearchResultsCount  prometheus.Histogram
	IndexBuildsTotal    *prometheus.CounterVec
	IndexBuildDuration  prometheus.Histogram
	IndexedRecords      prometheus.Gauge
	IndexedTerms        prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests that build many engines want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "school_search_queries_total",
				Help: "Total search queries by result type (hit, zero_result, error).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "school_search_latency_seconds",
				Help:    "Search query latency in seconds, as measured by the query engine.",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		SearchCandidates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "school_search_candidates",
				Help:    "Number of candidate records scored per query.",
				Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
			},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "school_search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 2, 3, 5, 10},
			},
		),
		IndexBuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "school_index_builds_total",
				Help: "Total index build attempts by status.",
			},
			[]string{"status"},
		),
		IndexBuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "school_index_build_duration_seconds",
				Help:    "Time spent building the inverted index.",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		IndexedRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "school_index_records",
				Help: "Number of records in the built index.",
			},
		),
		IndexedTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "school_index_terms",
				Help: "Number of distinct tokens in the built index.",
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "path"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.SearchQueriesTotal,
			m.SearchLatency,
			m.SearchCandidates,
			m.SearchResultsCount,
			m.IndexBuildsTotal,
			m.IndexBuildDuration,
			m.IndexedRecords,
			m.IndexedTerms,
			m.HTTPRequestsTotal,
			m.HTTPRequestDuration,
		)
		if g, ok := reg.(prometheus.Gatherer); ok {
			m.gatherer = g
		}
	}

	return m
}

// ObserveSearch records one completed query.
func (m *Metrics) ObserveSearch(elapsed time.Duration, candidates, results int) {
	resultType := ResultHit
	if results == 0 {
		resultType = ResultEmpty
	}
	m.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	m.SearchLatency.Observe(elapsed.Seconds())
	m.SearchCandidates.Observe(float64(candidates))
	m.SearchResultsCount.Observe(float64(results))
}

// ObserveSearchError records a query that could not be served.
func (m *Metrics) ObserveSearchError() {
	m.SearchQueriesTotal.WithLabelValues(ResultError).Inc()
}

// ObserveBuild records an index build attempt.
func (m *Metrics) ObserveBuild(duration time.Duration, records, terms int, err error) {
	if err != nil {
		m.IndexBuildsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.IndexBuildsTotal.WithLabelValues("success").Inc()
	m.IndexBuildDuration.Observe(duration.Seconds())
	m.IndexedRecords.Set(float64(records))
	m.IndexedTerms.Set(float64(terms))
}

// Handler returns the scrape handler for the registry these metrics were
// registered with, or the default registry when that is not a Gatherer.
func (m *Metrics) Handler() http.Handler {
	if m.gatherer != nil {
		return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}
