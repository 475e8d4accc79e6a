package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

func TestClassifierMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := NewClassifierMetrics(reg)
	require.NoError(t, err)

	m.RecordInference(20*time.Millisecond, "glass", nil)
	m.RecordInference(30*time.Millisecond, "glass", nil)
	m.RecordInference(5*time.Millisecond, "", assert.AnError)
	m.RecordModelLoad(2 * time.Second)

	assert.InDelta(t, 2, testutil.ToFloat64(m.predictions.WithLabelValues("glass")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.inferenceErrors), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.modelLoadDuration), 0)

	hist := findFamily(t, reg, "classifier_inference_duration_seconds")
	require.Len(t, hist.GetMetric(), 1)
	assert.Equal(t, uint64(3), hist.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestClassifierMetrics_DoubleRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewClassifierMetrics(reg)
	require.NoError(t, err)
	_, err = NewClassifierMetrics(reg)
	assert.Error(t, err)
}

func TestDatastoreMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := NewDatastoreMetrics(reg)
	require.NoError(t, err)

	m.RecordDBOperation("save_idea", StatusSuccess, time.Millisecond)
	m.RecordDBOperation("save_idea", StatusError, time.Millisecond)
	m.RecordDBOperation("list_ideas", StatusSuccess, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.operations.WithLabelValues("save_idea", StatusError)), 0)
	assert.Equal(t, 3, testutil.CollectAndCount(m.operations))
}

func TestMQTTMetrics(t *testing.T) {
	t.Parallel()

	m, err := NewMQTTMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordMQTTConnection(true)
	assert.InDelta(t, 1, testutil.ToFloat64(m.connectionStatus), 0)
	assert.Positive(t, testutil.ToFloat64(m.lastConnectTime))

	m.RecordMQTTPublish("t", 128, nil)
	m.RecordMQTTPublish("t", 128, assert.AnError)
	assert.InDelta(t, 1, testutil.ToFloat64(m.messagesDelivered), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.errors), 0)

	m.RecordMQTTConnection(false)
	assert.InDelta(t, 0, testutil.ToFloat64(m.connectionStatus), 0)
}

func TestNotificationMetrics(t *testing.T) {
	t.Parallel()

	m, err := NewNotificationMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordNotification("shoutrrr", nil)
	m.RecordNotification("shoutrrr", assert.AnError)
	m.RecordNotification("shoutrrr", assert.AnError)

	assert.InDelta(t, 2, testutil.ToFloat64(m.deliveries.WithLabelValues("shoutrrr", StatusError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.deliveries.WithLabelValues("shoutrrr", StatusSuccess)), 0)
}

func TestAppMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := NewAppMetrics(reg, func() float64 { return 4 })
	require.NoError(t, err)

	m.RecordIdeaSubmitted()
	m.RecordPointsAwarded("idea", 20)
	m.RecordPointsAwarded("accept", 10)
	m.RecordPointsAwarded("accept", 10)
	m.RecordPointsAwarded("accept", 0)
	m.RecordTranslation("hi", false, nil)
	m.RecordTranslation("hi", true, nil)
	m.RecordTranslation("hi", false, assert.AnError)

	assert.InDelta(t, 1, testutil.ToFloat64(m.ideasSubmitted), 0)
	assert.InDelta(t, 20, testutil.ToFloat64(m.pointsAwarded.WithLabelValues("accept")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.translations.WithLabelValues("hi", "cache")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.translations.WithLabelValues("hi", "fallback")), 0)

	sessions := findFamily(t, reg, "sessions_active")
	assert.InDelta(t, 4, sessions.GetMetric()[0].GetGauge().GetValue(), 0)
}

func TestAppMetrics_WithoutSessions(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewAppMetrics(reg, nil)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		assert.NotEqual(t, "sessions_active", f.GetName())
	}
}

func TestHTTPMetrics(t *testing.T) {
	t.Parallel()

	m, err := NewHTTPMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordRequest("GET", "/", 200, time.Millisecond)
	m.RecordRequest("POST", "/upload", 400, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/upload", "400")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}
