// conf/validate.go

package conf

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	validators := []func(*Settings) []string{
		validateModelSettings,
		validateWebServerSettings,
		validateOutputSettings,
		validateTranslationSettings,
		validateNotificationSettings,
		validateMQTTSettings,
		validateSentrySettings,
	}
	for _, validate := range validators {
		ve.Errors = append(ve.Errors, validate(settings)...)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateModelSettings(s *Settings) []string {
	var errs []string
	if s.Model.Path == "" {
		errs = append(errs, "model.path must be set")
	}
	if s.Model.Threads < 0 {
		errs = append(errs, fmt.Sprintf("model.threads must be non-negative, got %d", s.Model.Threads))
	}
	if s.Model.InputSize <= 0 {
		errs = append(errs, fmt.Sprintf("model.inputsize must be positive, got %d", s.Model.InputSize))
	}
	if s.Model.URL != "" {
		if err := validateEnvURL(s.Model.URL); err != nil {
			errs = append(errs, fmt.Sprintf("model.url: %v", err))
		}
	}
	seen := make(map[string]struct{}, len(s.Model.Labels))
	for _, label := range s.Model.Labels {
		if _, dup := seen[label]; dup {
			errs = append(errs, fmt.Sprintf("model.labels contains duplicate label %q", label))
		}
		seen[label] = struct{}{}
	}
	return errs
}

func validateWebServerSettings(s *Settings) []string {
	var errs []string
	if port, err := strconv.Atoi(s.WebServer.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("webserver.port must be a number between 1 and 65535, got '%s'", s.WebServer.Port))
	}
	if s.WebServer.AutoTLS && s.WebServer.Host == "" {
		errs = append(errs, "webserver.host is required when autotls is enabled")
	}
	if s.WebServer.SessionTTL <= 0 {
		errs = append(errs, "webserver.sessionttl must be positive")
	}
	return errs
}

func validateOutputSettings(s *Settings) []string {
	var errs []string
	sqlite, mysql := s.Output.SQLite, s.Output.MySQL
	switch {
	case sqlite.Enabled && mysql.Enabled:
		errs = append(errs, "only one of output.sqlite and output.mysql can be enabled")
	case !sqlite.Enabled && !mysql.Enabled:
		errs = append(errs, "one of output.sqlite or output.mysql must be enabled")
	}
	if sqlite.Enabled && sqlite.Path == "" {
		errs = append(errs, "output.sqlite.path must be set")
	}
	if mysql.Enabled {
		for field, value := range map[string]string{
			"host": mysql.Host, "port": mysql.Port, "username": mysql.Username, "database": mysql.Database,
		} {
			if value == "" {
				errs = append(errs, fmt.Sprintf("output.mysql.%s must be set", field))
			}
		}
	}
	return errs
}

func validateTranslationSettings(s *Settings) []string {
	var errs []string
	t := s.Translation
	if !IsSupportedLanguage(t.DefaultLanguage) {
		errs = append(errs, fmt.Sprintf("translation.defaultlanguage must be one of %s, got '%s'",
			strings.Join(LanguageCodes(), ", "), t.DefaultLanguage))
	}
	if !t.Enabled {
		return errs
	}
	if err := validateEnvURL(t.Endpoint); err != nil {
		errs = append(errs, fmt.Sprintf("translation.endpoint: %v", err))
	}
	if t.RateLimit <= 0 {
		errs = append(errs, "translation.ratelimit must be positive")
	}
	if t.Burst < 1 {
		errs = append(errs, "translation.burst must be at least 1")
	}
	return errs
}

func validateNotificationSettings(s *Settings) []string {
	push := s.Notification.Push
	if push.Enabled && len(push.URLs) == 0 {
		return []string{"notification.push.urls must contain at least one URL when push is enabled"}
	}
	return nil
}

func validateMQTTSettings(s *Settings) []string {
	if !s.MQTT.Enabled {
		return nil
	}
	var errs []string
	u, err := url.Parse(s.MQTT.Broker)
	if err != nil || u.Host == "" {
		errs = append(errs, fmt.Sprintf("mqtt.broker must be a URL like tcp://host:1883, got '%s'", s.MQTT.Broker))
	}
	if s.MQTT.Topic == "" {
		errs = append(errs, "mqtt.topic must be set")
	}
	return errs
}

func validateSentrySettings(s *Settings) []string {
	if s.Sentry.Enabled && s.Sentry.DSN == "" {
		return []string{"sentry.dsn is required when sentry is enabled"}
	}
	return nil
}
