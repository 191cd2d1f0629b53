package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studio_booking",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route.",
		},
		[]string{"route"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "studio_booking",
			Name:      "bookings_created_total",
			Help:      "Bookings successfully created.",
		},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studio_booking",
			Name:      "booking_transitions_total",
			Help:      "Booking status transitions by target status.",
		},
		[]string{"status"},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studio_booking",
			Name:      "cache_hits_total",
			Help:      "Read cache hits by tier.",
		},
		[]string{"tier"},
	)

	cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "studio_booking",
			Name:      "cache_misses_total",
			Help:      "Read cache misses.",
		},
	)

	notifyFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "studio_booking",
			Name:      "notification_failures_total",
			Help:      "Notification dispatches that failed or timed out.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, transitions, cacheHits, cacheMisses, notifyFailures)
	})
}

// IncHTTP increments the counter for a route label.
func IncHTTP(route string) { httpRequests.WithLabelValues(route).Inc() }

// IncBookingCreated counts one successful booking creation.
func IncBookingCreated() { bookingsCreated.Inc() }

// IncTransition counts one status transition.
func IncTransition(status string) { transitions.WithLabelValues(status).Inc() }

// IncCacheHit counts a cache hit for a tier ("memory" or "redis").
func IncCacheHit(tier string) { cacheHits.WithLabelValues(tier).Inc() }

// IncCacheMiss counts a cache miss.
func IncCacheMiss() { cacheMisses.Inc() }

// IncNotifyFailure counts a failed notification dispatch.
func IncNotifyFailure() { notifyFailures.Inc() }
