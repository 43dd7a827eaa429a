package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tably_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tably_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Table reconstruction metrics
	extractRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tably_extract_requests_total",
			Help: "Total number of extraction requests",
		},
		[]string{"mode", "status"}, // mode: zones, geometry
	)

	extractDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tably_extract_duration_seconds",
			Help:    "Table reconstruction duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	extractPagesProcessed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tably_extract_pages_per_document",
			Help:    "Number of pages per processed document",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	extractRowsReconstructed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tably_extract_rows_per_document",
			Help:    "Number of table rows reconstructed per document",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tably_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tably_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)
