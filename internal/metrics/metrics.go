package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittlr_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fittlr_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittlr_bookings_total",
			Help: "Total number of gym bookings created",
		},
		[]string{"status"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fittlr_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	BookingCompletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fittlr_booking_completions_total",
			Help: "Total number of completed bookings",
		},
	)

	MachineUsageMinutes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fittlr_machine_usage_minutes_total",
			Help: "Machine minutes recorded at booking completion",
		},
	)

	ServiceTicketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittlr_service_tickets_total",
			Help: "Service tickets opened automatically or closed by a service",
		},
		[]string{"action"},
	)

	AvailabilityQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittlr_availability_queries_total",
			Help: "Availability lookups by query mode",
		},
		[]string{"mode"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittlr_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fittlr_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordBookingCompletion(usageMinutes int) {
	BookingCompletionsTotal.Inc()
	MachineUsageMinutes.Add(float64(usageMinutes))
}

func RecordServiceTicket(action string) {
	ServiceTicketsTotal.WithLabelValues(action).Inc()
}

func RecordAvailabilityQuery(mode string) {
	AvailabilityQueriesTotal.WithLabelValues(mode).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
