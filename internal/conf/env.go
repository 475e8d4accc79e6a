// env.go - Environment variable configuration and validation for SmartWaste
package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "SMARTWASTE_DEBUG", validateEnvBool},

		{"model.path", "SMARTWASTE_MODEL_PATH", nil},
		{"model.url", "SMARTWASTE_MODEL_URL", validateEnvURL},
		{"model.threads", "SMARTWASTE_MODEL_THREADS", validateEnvThreads},
		{"model.usexnnpack", "SMARTWASTE_MODEL_USEXNNPACK", validateEnvBool},

		{"webserver.port", "SMARTWASTE_PORT", validateEnvPort},
		{"webserver.sessionsecret", "SMARTWASTE_SESSION_SECRET", nil},
		{"webserver.sessionttl", "SMARTWASTE_SESSION_TTL", validateEnvDuration},

		{"output.sqlite.path", "SMARTWASTE_SQLITE_PATH", nil},
		{"output.mysql.enabled", "SMARTWASTE_MYSQL_ENABLED", validateEnvBool},
		{"output.mysql.host", "SMARTWASTE_MYSQL_HOST", nil},
		{"output.mysql.port", "SMARTWASTE_MYSQL_PORT", validateEnvPort},
		{"output.mysql.username", "SMARTWASTE_MYSQL_USERNAME", nil},
		{"output.mysql.password", "SMARTWASTE_MYSQL_PASSWORD", nil},
		{"output.mysql.database", "SMARTWASTE_MYSQL_DATABASE", nil},

		{"translation.enabled", "SMARTWASTE_TRANSLATION_ENABLED", validateEnvBool},
		{"translation.endpoint", "SMARTWASTE_TRANSLATION_ENDPOINT", validateEnvURL},
		{"translation.apikey", "SMARTWASTE_TRANSLATION_APIKEY", nil},
		{"translation.defaultlanguage", "SMARTWASTE_LANGUAGE", validateEnvLanguage},

		{"sentry.dsn", "SMARTWASTE_SENTRY_DSN", nil},
		{"mqtt.password", "SMARTWASTE_MQTT_PASSWORD", nil},
	}
}

// bindEnvVars binds each environment variable and validates any value that is set.
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}
	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f", value)
	}
	return nil
}

func validateEnvThreads(value string) error {
	threads, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid threads: %w", err)
	}
	if threads < 0 {
		return fmt.Errorf("threads must be non-negative, got %d", threads)
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

func validateEnvDuration(value string) error {
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	return nil
}

func validateEnvURL(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got '%s'", u.Scheme)
	}
	return nil
}

func validateEnvLanguage(value string) error {
	if !IsSupportedLanguage(value) {
		return fmt.Errorf("unsupported language, expected one of: %s", strings.Join(LanguageCodes(), ", "))
	}
	return nil
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables() error {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return bindEnvVars()
}
