// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openhacks_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "openhacks_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openhacks_rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	// Announcements
	AnnouncementsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openhacks_announcements_published_total",
			Help: "Announcements handed to the relay, by result",
		},
		[]string{"result"}, // "ok", "error"
	)

	RelayBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "openhacks_relay_breaker_state",
			Help: "Relay circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	WebsocketSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "openhacks_websocket_subscribers",
			Help: "Currently connected announcement subscribers",
		},
	)

	// Search
	SearchIndexErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openhacks_search_index_errors_total",
			Help: "Failed search index writes, by operation",
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAnnouncementPublish counts a relay publish attempt
func RecordAnnouncementPublish(err error) {
	if err != nil {
		AnnouncementsPublished.WithLabelValues("error").Inc()
		return
	}
	AnnouncementsPublished.WithLabelValues("ok").Inc()
}
