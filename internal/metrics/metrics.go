// Package metrics exposes Prometheus counters for the admin API's writes,
// cache invalidations and notification deliveries.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DisplayOrderWrites counts individual display_order updates per collection.
	DisplayOrderWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meew_admin",
		Name:      "display_order_writes_total",
		Help:      "Total number of display_order writes issued",
	}, []string{"collection", "status"})

	// ReorderOutcomes counts whole WriteSet applications by outcome:
	// ok, failed (nothing applied) or partial.
	ReorderOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meew_admin",
		Name:      "reorder_outcomes_total",
		Help:      "Total number of reorder operations by outcome",
	}, []string{"collection", "outcome"})

	// CacheInvalidations counts query cache keys dropped after mutations.
	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meew_admin",
		Name:      "cache_invalidations_total",
		Help:      "Total number of query cache invalidations",
	}, []string{"key"})

	// NotificationsSent counts push notification deliveries by final status.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meew_admin",
		Name:      "notifications_total",
		Help:      "Total number of push notification send attempts by result",
	}, []string{"status"})

	// HTTPRequests counts API requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meew_admin",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "meew_admin",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// RecordWrite increments the write counter for a collection.
func RecordWrite(collection string, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	DisplayOrderWrites.WithLabelValues(collection, status).Inc()
}

// RecordReorder increments the reorder outcome counter.
func RecordReorder(collection, outcome string) {
	ReorderOutcomes.WithLabelValues(collection, outcome).Inc()
}

// RecordInvalidation increments the cache invalidation counter.
func RecordInvalidation(key string) {
	CacheInvalidations.WithLabelValues(key).Inc()
}

// RecordRequest records one served HTTP request.
func RecordRequest(method, route string, status int, seconds float64) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordNotification increments the notification counter.
func RecordNotification(status string) {
	NotificationsSent.WithLabelValues(status).Inc()
}
