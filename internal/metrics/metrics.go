package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "carrental"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bookingsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Bookings created.",
	})

	bookingConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_conflicts_total",
		Help:      "Booking attempts rejected because the car was taken for the dates.",
	})

	bookingsCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_cancelled_total",
		Help:      "Bookings cancelled.",
	})

	returnsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "returns_processed_total",
			Help:      "Vehicle returns processed by condition.",
		},
		[]string{"condition"},
	)

	returnCharges = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "return_charges_total",
		Help:      "Sum of additional charges applied at return.",
	})
)

// Register registers the collectors with the default registry. Safe to call
// multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			bookingsCreated,
			bookingConflicts,
			bookingsCancelled,
			returnsProcessed,
			returnCharges,
		)
	})
}

// ObserveHTTP records a finished request.
func ObserveHTTP(method, route, status string, seconds float64) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// IncBookingCreated counts a created booking.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingConflict counts a booking rejected for overlapping dates.
func IncBookingConflict() {
	bookingConflicts.Inc()
}

// IncBookingCancelled counts a cancelled booking.
func IncBookingCancelled() {
	bookingsCancelled.Inc()
}

// ObserveReturn counts a processed return and its additional charges.
func ObserveReturn(condition string, charges float64) {
	returnsProcessed.WithLabelValues(condition).Inc()
	returnCharges.Add(charges)
}
