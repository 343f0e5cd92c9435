package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the donation lifecycle.
type Metrics struct {
	ReservationAttempts  prometheus.Counter
	ReservationConflicts prometheus.Counter
	Rejections           prometheus.Counter
	Confirmations        *prometheus.CounterVec
	Completions          prometheus.Counter
	RequestDuration      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers metrics against a specific registerer; tests pass a fresh
// registry to avoid duplicate-registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReservationAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "givebridge_reservation_attempts_total",
			Help: "Total reservation attempts, including ones that lost the race",
		}),
		ReservationConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "givebridge_reservation_conflicts_total",
			Help: "Reservation attempts rejected because the donation was not available",
		}),
		Rejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "givebridge_pickup_rejections_total",
			Help: "Donor rejections that returned a donation to the pool",
		}),
		Confirmations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "givebridge_confirmations_total",
			Help: "Accepted pickup confirmations by party",
		}, []string{"party"}),
		Completions: factory.NewCounter(prometheus.CounterOpts{
			Name: "givebridge_completions_total",
			Help: "Donations that reached the completed state",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "givebridge_http_request_duration_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"route", "method"}),
	}
}

// ObserveRequest records a single HTTP request latency sample.
func (m *Metrics) ObserveRequest(route, method string, millis float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method).Observe(millis)
}
