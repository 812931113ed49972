package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	paymentsCreated    *prometheus.CounterVec
	paymentsCancelled  *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	notifications      *prometheus.CounterVec
	tasksDropped       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		paymentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_created_total",
			Help: "Payments persisted, by payment type.",
		}, []string{"type"}),
		paymentsCancelled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_cancelled_total",
			Help: "Payments cancelled, by payment type.",
		}, []string{"type"}),
		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_validation_failures_total",
			Help: "Requests rejected with a validation error, by operation.",
		}, []string{"operation"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_notifications_total",
			Help: "Post-creation notification outcomes, by payment type and status.",
		}, []string{"type", "status"}),
		tasksDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "async_tasks_dropped_total",
			Help: "Background tasks rejected because the worker queue was full.",
		}, []string{"pool"}),
	}
}

func (m *Metrics) PaymentCreated(paymentType string) {
	m.paymentsCreated.WithLabelValues(paymentType).Inc()
}

func (m *Metrics) PaymentCancelled(paymentType string) {
	m.paymentsCancelled.WithLabelValues(paymentType).Inc()
}

func (m *Metrics) ValidationFailed(operation string) {
	m.validationFailures.WithLabelValues(operation).Inc()
}

func (m *Metrics) NotificationSent(paymentType, status string) {
	m.notifications.WithLabelValues(paymentType, status).Inc()
}

func (m *Metrics) TaskDropped(pool string) {
	m.tasksDropped.WithLabelValues(pool).Inc()
}
