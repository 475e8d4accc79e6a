package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// AppMetrics tracks user facing activity: rewards, ideas and translations.
type AppMetrics struct {
	ideasSubmitted prometheus.Counter
	pointsAwarded  *prometheus.CounterVec
	translations   *prometheus.CounterVec
	activeSessions prometheus.GaugeFunc
}

// NewAppMetrics creates and registers the application collectors.
// activeSessions may be nil.
func NewAppMetrics(registry prometheus.Registerer, activeSessions func() float64) (*AppMetrics, error) {
	m := &AppMetrics{
		ideasSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forum_ideas_submitted_total",
			Help: "Community ideas stored",
		}),
		pointsAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rewards_points_awarded_total",
			Help: "Points credited to users, by reward kind",
		}, []string{"kind"}),
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "translation_requests_total",
			Help: "Dynamic text translations by language and source",
		}, []string{"lang", "source"}),
	}
	collectors := []prometheus.Collector{m.ideasSubmitted, m.pointsAwarded, m.translations}
	if activeSessions != nil {
		m.activeSessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Sessions currently held in memory",
		}, activeSessions)
		collectors = append(collectors, m.activeSessions)
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register application metrics: %w", err)
		}
	}
	return m, nil
}

// RecordIdeaSubmitted counts one stored idea.
func (m *AppMetrics) RecordIdeaSubmitted() { m.ideasSubmitted.Inc() }

// RecordPointsAwarded adds points under kind.
func (m *AppMetrics) RecordPointsAwarded(kind string, points int) {
	if points <= 0 {
		return
	}
	m.pointsAwarded.WithLabelValues(kind).Add(float64(points))
}

// RecordTranslation counts a translation by where it came from.
func (m *AppMetrics) RecordTranslation(lang string, cached bool, err error) {
	source := "provider"
	switch {
	case err != nil:
		source = "fallback"
	case cached:
		source = "cache"
	}
	m.translations.WithLabelValues(lang, source).Inc()
}
