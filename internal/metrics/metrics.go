package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pilates_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pilates_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsConfirmedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pilates_bookings_confirmed_total",
			Help: "Total number of confirmed bookings",
		},
	)

	BookingsDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pilates_bookings_denied_total",
			Help: "Total number of denied booking attempts",
		},
		[]string{"reason"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pilates_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	SubscriptionsActivatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pilates_subscriptions_activated_total",
			Help: "Total number of subscriptions activated",
		},
	)

	PaymentsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pilates_payments_recorded_total",
			Help: "Total number of subscription payments recorded",
		},
		[]string{"late_fee"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pilates_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pilates_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingConfirmed() {
	BookingsConfirmedTotal.Inc()
}

func RecordBookingDenied(reason string) {
	BookingsDeniedTotal.WithLabelValues(reason).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordSubscriptionActivated() {
	SubscriptionsActivatedTotal.Inc()
}

func RecordPayment(lateFee bool) {
	label := "no"
	if lateFee {
		label = "yes"
	}
	PaymentsRecordedTotal.WithLabelValues(label).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
