package notification

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSent    = "sent"
	statusFailed  = "failed"
	statusPartial = "partial"
)

// Metrics holds the Prometheus collectors for notification delivery.
// A nil *Metrics records nothing.
type Metrics struct {
	sent     *prometheus.CounterVec
	rejected *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the notification collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftcrew",
			Name:      "notifications_total",
			Help:      "Notification delivery attempts by kind and outcome.",
		}, []string{"kind", "status"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftcrew",
			Name:      "notification_rejected_recipients_total",
			Help:      "Recipients refused by the mail transport.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shiftcrew",
			Name:      "notification_send_duration_seconds",
			Help:      "Time spent handing a notification to the mail transport.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	reg.MustRegister(m.sent, m.rejected, m.duration)
	return m
}

func (m *Metrics) observe(kind Kind, status string, rejected int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.sent.WithLabelValues(string(kind), status).Inc()
	if rejected > 0 {
		m.rejected.WithLabelValues(string(kind)).Add(float64(rejected))
	}
	if elapsed > 0 {
		m.duration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	}
}
