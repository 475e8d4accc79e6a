package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validSettings returns settings that pass ValidateSettings.
func validSettings() *Settings {
	s := &Settings{}
	s.Model.Path = "models/waste_classifier.tflite"
	s.Model.InputSize = 224
	s.WebServer.Port = "8080"
	s.WebServer.SessionTTL = time.Hour
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = "waste.db"
	s.Translation.DefaultLanguage = "en"
	return s
}

func TestLoadCreatesDefaultConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)

	settings, err := Load()
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(home, ".config", "smartwaste", "config.yaml"))
	assert.Equal(t, "SmartWaste", settings.Main.Name)
	assert.Equal(t, 224, settings.Model.InputSize)
	assert.True(t, settings.Output.SQLite.Enabled)
	assert.Equal(t, 2*time.Hour, settings.WebServer.SessionTTL)
	assert.Equal(t, 24*time.Hour, settings.Translation.CacheTTL)
	assert.NotEmpty(t, settings.WebServer.SessionSecret, "secret is generated when not configured")
	assert.Same(t, settings, GetSettings())
}

func TestLoadFileWithEnvironmentOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
webserver:
  port: "8081"
  sessionsecret: fixed
output:
  sqlite:
    enabled: true
    path: /tmp/ideas.db
logging:
  default_level: debug
  module_levels:
    classifier: trace
`), 0o600))
	t.Setenv("SMARTWASTE_PORT", "9090")

	settings, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", settings.WebServer.Port, "environment wins over file")
	assert.Equal(t, "fixed", settings.WebServer.SessionSecret)
	assert.Equal(t, "/tmp/ideas.db", settings.Output.SQLite.Path)
	assert.Equal(t, "debug", settings.Logging.DefaultLevel)
	assert.Equal(t, "trace", settings.Logging.ModuleLevels["classifier"])
}

func TestLoadRejectsInvalidEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("main:\n  name: test\n"), 0o600))
	t.Setenv("SMARTWASTE_MODEL_THREADS", "-2")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMARTWASTE_MODEL_THREADS")
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"bad port", func(s *Settings) { s.WebServer.Port = "http" }, "webserver.port"},
		{"autotls without host", func(s *Settings) { s.WebServer.AutoTLS = true }, "webserver.host"},
		{"two databases", func(s *Settings) { s.Output.MySQL.Enabled = true }, "only one of"},
		{"no database", func(s *Settings) { s.Output.SQLite.Enabled = false }, "must be enabled"},
		{"duplicate labels", func(s *Settings) { s.Model.Labels = []string{"shoes", "shoes"} }, "duplicate label"},
		{"unsupported language", func(s *Settings) { s.Translation.DefaultLanguage = "de" }, "translation.defaultlanguage"},
		{"translation without endpoint", func(s *Settings) {
			s.Translation.Enabled = true
			s.Translation.RateLimit = 1
			s.Translation.Burst = 1
			s.Translation.Endpoint = "ftp://example.com"
		}, "translation.endpoint"},
		{"push without urls", func(s *Settings) { s.Notification.Push.Enabled = true }, "notification.push.urls"},
		{"mqtt without broker host", func(s *Settings) {
			s.MQTT.Enabled = true
			s.MQTT.Topic = "smartwaste"
			s.MQTT.Broker = "localhost"
		}, "mqtt.broker"},
		{"sentry without dsn", func(s *Settings) { s.Sentry.Enabled = true }, "sentry.dsn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Error(), tt.wantErr)
		})
	}
}

func TestValidateSettingsCollectsAllErrors(t *testing.T) {
	s := validSettings()
	s.WebServer.Port = "0"
	s.Model.Path = ""

	err := ValidateSettings(s)

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)
}
