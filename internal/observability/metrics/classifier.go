package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClassifierMetrics tracks image classification.
type ClassifierMetrics struct {
	predictions       *prometheus.CounterVec
	inferenceDuration prometheus.Histogram
	inferenceErrors   prometheus.Counter
	modelLoadDuration prometheus.Gauge
}

// NewClassifierMetrics creates and registers the classifier collectors.
func NewClassifierMetrics(registry prometheus.Registerer) (*ClassifierMetrics, error) {
	m := &ClassifierMetrics{
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classifier_predictions_total",
			Help: "Predictions made, by predicted waste class",
		}, []string{"class"}),
		inferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "classifier_inference_duration_seconds",
			Help:    "Time spent running model inference",
			Buckets: latencyBuckets,
		}),
		inferenceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classifier_inference_errors_total",
			Help: "Inference calls that failed",
		}),
		modelLoadDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "classifier_model_load_duration_seconds",
			Help: "Time the last model load took",
		}),
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register classifier metrics: %w", err)
	}
	return m, nil
}

// RecordInference records one classification attempt.
func (m *ClassifierMetrics) RecordInference(duration time.Duration, class string, err error) {
	m.inferenceDuration.Observe(duration.Seconds())
	if err != nil {
		m.inferenceErrors.Inc()
		return
	}
	m.predictions.WithLabelValues(class).Inc()
}

// RecordModelLoad records how long loading the model took.
func (m *ClassifierMetrics) RecordModelLoad(duration time.Duration) {
	m.modelLoadDuration.Set(duration.Seconds())
}

// Describe implements prometheus.Collector.
func (m *ClassifierMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.predictions.Describe(ch)
	m.inferenceDuration.Describe(ch)
	m.inferenceErrors.Describe(ch)
	m.modelLoadDuration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *ClassifierMetrics) Collect(ch chan<- prometheus.Metric) {
	m.predictions.Collect(ch)
	m.inferenceDuration.Collect(ch)
	m.inferenceErrors.Collect(ch)
	m.modelLoadDuration.Collect(ch)
}
