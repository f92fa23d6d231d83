// Package metrics provides Prometheus metrics for the dossier index.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	// Build metrics
	BuildsTotal        *prometheus.CounterVec
	BuildDuration      prometheus.Histogram
	ChunksIndexedTotal prometheus.Counter

	// Search metrics
	SearchQueriesTotal  prometheus.Counter
	SearchResultsTotal  prometheus.Counter
	SearchCacheHits     prometheus.Counter
	SearchDuration      prometheus.Histogram

	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates all collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{}

	m.BuildsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dossier_index_builds_total",
			Help: "Total number of index builds",
		},
		[]string{"status"},
	)

	m.BuildDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dossier_index_build_duration_seconds",
			Help:    "Duration of index builds in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	m.ChunksIndexedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "dossier_index_chunks_indexed_total",
			Help: "Total number of chunks written across all builds",
		},
	)

	m.SearchQueriesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "dossier_index_search_queries_total",
			Help: "Total number of search queries",
		},
	)

	m.SearchResultsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "dossier_index_search_results_total",
			Help: "Total number of results returned",
		},
	)

	m.SearchCacheHits = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "dossier_index_search_cache_hits_total",
			Help: "Search responses served from the query cache",
		},
	)

	m.SearchDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dossier_index_search_duration_seconds",
			Help:    "Duration of search queries in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dossier_index_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dossier_index_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	return m
}
