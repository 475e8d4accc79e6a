package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DatastoreMetrics tracks database operations.
type DatastoreMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewDatastoreMetrics creates and registers the datastore collectors.
func NewDatastoreMetrics(registry prometheus.Registerer) (*DatastoreMetrics, error) {
	m := &DatastoreMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_operations_total",
			Help: "Database operations by operation and status",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: latencyBuckets,
		}, []string{"operation"}),
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register datastore metrics: %w", err)
	}
	return m, nil
}

// RecordDBOperation records one database operation.
func (m *DatastoreMetrics) RecordDBOperation(operation, status string, duration time.Duration) {
	m.operations.WithLabelValues(operation, status).Inc()
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Describe implements prometheus.Collector.
func (m *DatastoreMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.operations.Describe(ch)
	m.duration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *DatastoreMetrics) Collect(ch chan<- prometheus.Metric) {
	m.operations.Collect(ch)
	m.duration.Collect(ch)
}
