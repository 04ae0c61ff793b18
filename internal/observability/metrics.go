package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Editor metrics
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "editor_login_attempts_total",
			Help: "Editor login attempts by result",
		},
		[]string{"result"},
	)

	EditSavesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "editor_edit_saves_total",
			Help: "Total number of persisted edit saves",
		},
	)

	StaleSelectorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "editor_stale_selectors_total",
			Help: "Saved selectors that no longer match the page's static structure",
		},
	)

	// Store metrics
	StorePages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "edit_store_pages",
			Help: "Number of pages with persisted edits",
		},
	)

	StoreWriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "edit_store_write_duration_seconds",
			Help:    "Edit store write latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5},
		},
	)
)
