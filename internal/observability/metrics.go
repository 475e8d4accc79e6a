// Package observability provides Prometheus metrics for the smart waste application.
// Sentry error telemetry is handled in the errors package.
package observability

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tphakala/smartwaste/internal/logger"
	"github.com/tphakala/smartwaste/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry     *prometheus.Registry
	Classifier   *metrics.ClassifierMetrics
	Datastore    *metrics.DatastoreMetrics
	MQTT         *metrics.MQTTMetrics
	Notification *metrics.NotificationMetrics
	App          *metrics.AppMetrics
	HTTP         *metrics.HTTPMetrics
}

// NewMetrics creates every collector on a private registry. activeSessions
// reports the live session count and may be nil.
func NewMetrics(activeSessions func() float64) (*Metrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{registry: registry}
	var err error

	if m.Classifier, err = metrics.NewClassifierMetrics(registry); err != nil {
		return nil, fmt.Errorf("failed to create classifier metrics: %w", err)
	}
	if m.Datastore, err = metrics.NewDatastoreMetrics(registry); err != nil {
		return nil, fmt.Errorf("failed to create datastore metrics: %w", err)
	}
	if m.MQTT, err = metrics.NewMQTTMetrics(registry); err != nil {
		return nil, fmt.Errorf("failed to create MQTT metrics: %w", err)
	}
	if m.Notification, err = metrics.NewNotificationMetrics(registry); err != nil {
		return nil, fmt.Errorf("failed to create notification metrics: %w", err)
	}
	if m.App, err = metrics.NewAppMetrics(registry, activeSessions); err != nil {
		return nil, fmt.Errorf("failed to create application metrics: %w", err)
	}
	if m.HTTP, err = metrics.NewHTTPMetrics(registry); err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}
	return m, nil
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// LogSummary writes a one line overview of registered metric families.
func (m *Metrics) LogSummary() {
	families, err := m.registry.Gather()
	if err != nil {
		GetLogger().Warn("failed to gather metrics", logger.Error(err))
		return
	}
	GetLogger().Info("metrics registered", logger.Int("families", len(families)))
}
