// Package telemetry configures Sentry error reporting with privacy filtering.
package telemetry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
	"github.com/tphakala/smartwaste/internal/privacy"
)

const flushTimeout = 2 * time.Second

// allowedExtra lists the event extras that survive filtering.
var allowedExtra = map[string]bool{
	"component": true,
	"category":  true,
}

// InitSentry initializes the Sentry SDK when enabled in settings and
// registers it as the error telemetry reporter.
func InitSentry(settings *conf.Settings) (bool, error) {
	if !settings.Sentry.Enabled {
		return false, nil
	}

	environment := settings.Sentry.Environment
	if environment == "" {
		environment = "production"
	}
	release := "smartwaste"
	if settings.Version != "" {
		release = fmt.Sprintf("smartwaste@%s", settings.Version)
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.Sentry.DSN,
		SampleRate:       1.0,
		AttachStacktrace: false,
		Environment:      environment,
		ServerName:       "",
		Release:          release,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return applyPrivacyFilters(event)
		},
	})
	if err != nil {
		return false, fmt.Errorf("sentry initialization failed: %w", err)
	}

	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	GetLogger().Info("error telemetry enabled",
		logger.String("environment", environment),
		logger.String("dsn", privacy.RedactURL(settings.Sentry.DSN)))
	return true, nil
}

// Flush waits briefly for queued events to be sent.
func Flush() {
	sentry.Flush(flushTimeout)
}

// applyPrivacyFilters strips host and user identifying data from event.
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	if event == nil {
		return nil
	}
	event.User = sentry.User{}
	event.ServerName = ""
	event.Request = nil

	if event.Contexts != nil {
		delete(event.Contexts, "device")
		delete(event.Contexts, "os")
		delete(event.Contexts, "runtime")
	}
	for k := range event.Extra {
		if !allowedExtra[k] {
			delete(event.Extra, k)
		}
	}
	if event.Tags != nil {
		delete(event.Tags, "server_name")
		delete(event.Tags, "hostname")
	}

	event.Message = privacy.ScrubMessage(event.Message)
	for i := range event.Exception {
		event.Exception[i].Value = privacy.ScrubMessage(event.Exception[i].Value)
	}
	return event
}
