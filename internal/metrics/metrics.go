package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gatherly_events_created_total",
		Help: "Total number of events created.",
	})

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gatherly_bookings_created_total",
		Help: "Total number of bookings recorded.",
	})

	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gatherly_booking_conflicts_total",
		Help: "Total number of bookings rejected because the (event, email) pair was already booked.",
	})

	ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gatherly_validation_failures_total",
		Help: "Total number of create/update payloads rejected by field validation.",
	})
)
