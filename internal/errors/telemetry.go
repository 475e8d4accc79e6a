// Package errors - telemetry integration (optional)
package errors

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/getsentry/sentry-go"
)

// TelemetryReporter is an interface for reporting errors to telemetry systems
type TelemetryReporter interface {
	ReportError(err *EnhancedError)
	IsEnabled() bool
}

// SentryReporter implements TelemetryReporter for Sentry
type SentryReporter struct {
	enabled bool
}

// NewSentryReporter creates a new Sentry telemetry reporter
func NewSentryReporter(enabled bool) *SentryReporter {
	return &SentryReporter{enabled: enabled}
}

// IsEnabled returns whether Sentry telemetry is enabled
func (sr *SentryReporter) IsEnabled() bool {
	return sr.enabled
}

// ReportError sends an enhanced error to Sentry. Validation errors are user
// input problems and are never reported.
func (sr *SentryReporter) ReportError(ee *EnhancedError) {
	if !sr.enabled || ee.IsReported() || ee.Category == CategoryValidation {
		return
	}

	category := ee.GetCategory()
	message := scrubMessage(fmt.Sprintf("[%s] %s", category, ee.Err.Error()))
	component := ee.GetComponent()

	sentry.WithScope(func(scope *sentry.Scope) {
		title := errorTitle(component, ee.Category)

		scope.SetTag("component", component)
		scope.SetTag("category", category)
		scope.SetTag("error_type", fmt.Sprintf("%T", ee.Err))
		for key, value := range ee.GetContext() {
			if s, ok := value.(string); ok {
				value = scrubMessage(s)
			}
			scope.SetContext(key, map[string]any{"value": value})
		}
		scope.SetFingerprint([]string{title, component, category})

		event := sentry.NewEvent()
		event.Message = message
		event.Level = levelFor(ee.Category)
		event.Exception = []sentry.Exception{{Type: title, Value: message}}
		sentry.CaptureEvent(event)
	})

	ee.MarkReported()
}

func errorTitle(component string, category ErrorCategory) string {
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(component + " " + string(category)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ") + " Error"
}

func levelFor(category ErrorCategory) sentry.Level {
	switch category {
	case CategoryNetwork, CategoryTranslation, CategoryNotification, CategoryMQTTConnect, CategoryMQTTPublish, CategoryTimeout:
		return sentry.LevelWarning
	default:
		return sentry.LevelError
	}
}

var (
	reporterMu              sync.RWMutex
	globalTelemetryReporter TelemetryReporter
)

// SetTelemetryReporter sets the global telemetry reporter. Passing nil disables reporting.
func SetTelemetryReporter(reporter TelemetryReporter) {
	reporterMu.Lock()
	defer reporterMu.Unlock()
	globalTelemetryReporter = reporter
	hasActiveReporting.Store(reporter != nil && reporter.IsEnabled())
}

// GetTelemetryReporter returns the current telemetry reporter
func GetTelemetryReporter() TelemetryReporter {
	reporterMu.RLock()
	defer reporterMu.RUnlock()
	return globalTelemetryReporter
}

func reportToTelemetry(ee *EnhancedError) {
	if r := GetTelemetryReporter(); r != nil && r.IsEnabled() {
		r.ReportError(ee)
	}
}

var (
	urlQueryRegex = regexp.MustCompile(`(https?://[^?\s]+)\?\S*`)
	secretRegex   = regexp.MustCompile(`(?i)(api[_-]?key|token|password|secret)[=:]\S+`)
)

// scrubMessage removes query strings and credentials from messages before they leave the process.
func scrubMessage(message string) string {
	scrubbed := urlQueryRegex.ReplaceAllString(message, "$1?[REDACTED]")
	return secretRegex.ReplaceAllString(scrubbed, "$1=[REDACTED]")
}
