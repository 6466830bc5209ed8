// Package metrics exposes Prometheus collectors for the lookup and API paths.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricPrefix = "elbyte_"

var (
	// HTTPRequests counts API requests by route and status class
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "http_requests_total",
			Help: "API requests by route and status",
		},
		[]string{"route", "status"},
	)

	// HTTPDuration observes API request latency by route
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "http_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// TariffLookups counts tariff lookups by supplier and outcome (live, cache, error)
	TariffLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "tariff_lookups_total",
			Help: "Tariff lookups by supplier and outcome",
		},
		[]string{"supplier", "outcome"},
	)

	// FetchFailures counts live fetch failures by supplier
	FetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "tariff_fetch_failures_total",
			Help: "Live tariff fetch failures by supplier",
		},
		[]string{"supplier"},
	)

	// CacheFallbacks counts lookups served from the persisted cache
	CacheFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: metricPrefix + "tariff_cache_fallbacks_total",
			Help: "Lookups served from the persisted tariff cache",
		},
	)

	// SpotRefreshes counts spot price refreshes by area
	SpotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "spot_refreshes_total",
			Help: "Spot price cache refreshes by area",
		},
		[]string{"area"},
	)
)

// ObserveHTTPRequest records one completed API request
func ObserveHTTPRequest(route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}
