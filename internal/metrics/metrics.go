package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightdesk",
			Name:      "booking_transitions_total",
			Help:      "Count of booking transition attempts by transition and outcome.",
		},
		[]string{"transition", "outcome"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flightdesk",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route and status code.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	sideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightdesk",
			Name:      "side_effect_failures_total",
			Help:      "Count of best-effort side effects that failed after a committed transition.",
		},
		[]string{"kind"},
	)

	notificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightdesk",
			Name:      "notifications_sent_total",
			Help:      "Count of booking notification emails by event type and result.",
		},
		[]string{"event", "result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingTransitions, httpRequestDuration, sideEffectFailures, notificationsSent)
	})
}

func IncTransition(transition, outcome string) {
	bookingTransitions.WithLabelValues(transition, outcome).Inc()
}

func ObserveRequest(method, route, status string, d time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func IncSideEffectFailure(kind string) {
	sideEffectFailures.WithLabelValues(kind).Inc()
}

func IncNotification(event, result string) {
	notificationsSent.WithLabelValues(event, result).Inc()
}
