package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// NotificationMetrics tracks push deliveries.
type NotificationMetrics struct {
	deliveries *prometheus.CounterVec
}

// NewNotificationMetrics creates and registers the notification collectors.
func NewNotificationMetrics(registry prometheus.Registerer) (*NotificationMetrics, error) {
	m := &NotificationMetrics{
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_deliveries_total",
			Help: "Push notification deliveries by provider and status",
		}, []string{"provider", "status"}),
	}
	if err := registry.Register(m.deliveries); err != nil {
		return nil, fmt.Errorf("failed to register notification metrics: %w", err)
	}
	return m, nil
}

// RecordNotification records one delivery attempt.
func (m *NotificationMetrics) RecordNotification(provider string, err error) {
	m.deliveries.WithLabelValues(provider, statusOf(err)).Inc()
}
