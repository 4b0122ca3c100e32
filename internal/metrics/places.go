package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Places provider Prometheus metrics.
var (
	PlacesRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodmcp",
			Name:      "places_requests_total",
			Help:      "Total number of places provider requests",
		},
		[]string{"status"}, // "success" / "error"
	)

	PlacesRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "foodmcp",
			Name:      "places_request_duration_seconds",
			Help:      "Places provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	PlacesErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodmcp",
			Name:      "places_errors_total",
			Help:      "Total places provider failures by kind",
		},
		[]string{"error_type"}, // transport, http_status, provider_status, decode
	)

	PlacesResultsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "foodmcp",
			Name:      "places_results_dropped_total",
			Help:      "Provider records dropped because they could not be normalized",
		},
	)
)

// Tool call Prometheus metrics.
var (
	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodmcp",
			Name:      "tool_calls_total",
			Help:      "Total number of tool calls",
		},
		[]string{"tool", "outcome"}, // "success" / "error"
	)

	ToolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foodmcp",
			Name:      "tool_call_duration_seconds",
			Help:      "Tool call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"tool"},
	)
)

var registerOnce sync.Once

// Register registers all Prometheus metrics. Must be called from main; safe to call twice.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PlacesRequestsTotal,
			PlacesRequestDuration,
			PlacesErrorsTotal,
			PlacesResultsDroppedTotal,
			ToolCallsTotal,
			ToolCallDuration,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}
