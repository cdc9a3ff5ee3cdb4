package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flows.
type BookingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	cancellationsTotal *prometheus.CounterVec
	loginsTotal        *prometheus.CounterVec
	bookingLatency     *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicbook",
			Subsystem: "appointments",
			Name:      "bookings_total",
			Help:      "Total booking attempts",
		}, []string{"status"}),
		cancellationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicbook",
			Subsystem: "appointments",
			Name:      "cancellations_total",
			Help:      "Total appointment cancellations",
		}, []string{"role"}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicbook",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total login attempts",
		}, []string{"status"}),
		bookingLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinicbook",
			Subsystem: "appointments",
			Name:      "booking_latency_seconds",
			Help:      "Latency of booking processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.cancellationsTotal, m.loginsTotal, m.bookingLatency)
	return m
}

func (m *BookingMetrics) ObserveBooking(status string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
	m.bookingLatency.WithLabelValues(status).Observe(seconds)
}

func (m *BookingMetrics) ObserveCancellation(role string) {
	if m == nil {
		return
	}
	m.cancellationsTotal.WithLabelValues(role).Inc()
}

func (m *BookingMetrics) ObserveLogin(status string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(status).Inc()
}
