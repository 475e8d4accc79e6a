package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// MQTTMetrics contains all Prometheus metrics related to MQTT operations.
type MQTTMetrics struct {
	connectionStatus  prometheus.Gauge
	lastConnectTime   prometheus.Gauge
	messagesDelivered prometheus.Counter
	errors            prometheus.Counter
	messageSize       prometheus.Histogram
}

// NewMQTTMetrics creates and registers the MQTT collectors.
func NewMQTTMetrics(registry prometheus.Registerer) (*MQTTMetrics, error) {
	m := &MQTTMetrics{
		connectionStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mqtt_connection_status",
			Help: "Current MQTT connection status (1 for connected, 0 for disconnected)",
		}),
		lastConnectTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mqtt_last_connect_time_seconds",
			Help: "Timestamp of the last successful MQTT connection",
		}),
		messagesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_messages_delivered_total",
			Help: "Total number of MQTT messages successfully delivered",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_errors_total",
			Help: "Total number of MQTT publish errors",
		}),
		messageSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mqtt_message_size_bytes",
			Help:    "Size of MQTT messages in bytes",
			Buckets: sizeBuckets,
		}),
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register MQTT metrics: %w", err)
	}
	return m, nil
}

// RecordMQTTPublish records a publish attempt.
func (m *MQTTMetrics) RecordMQTTPublish(_ string, size int, err error) {
	if err != nil {
		m.errors.Inc()
		return
	}
	m.messagesDelivered.Inc()
	m.messageSize.Observe(float64(size))
}

// RecordMQTTConnection updates the connection gauges.
func (m *MQTTMetrics) RecordMQTTConnection(connected bool) {
	if connected {
		m.connectionStatus.Set(1)
		m.lastConnectTime.SetToCurrentTime()
		return
	}
	m.connectionStatus.Set(0)
}

// Describe implements prometheus.Collector.
func (m *MQTTMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.connectionStatus.Describe(ch)
	m.lastConnectTime.Describe(ch)
	m.messagesDelivered.Describe(ch)
	m.errors.Describe(ch)
	m.messageSize.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *MQTTMetrics) Collect(ch chan<- prometheus.Metric) {
	m.connectionStatus.Collect(ch)
	m.lastConnectTime.Collect(ch)
	m.messagesDelivered.Collect(ch)
	m.errors.Collect(ch)
	m.messageSize.Collect(ch)
}
