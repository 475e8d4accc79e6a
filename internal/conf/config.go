// config.go: settings struct for the SmartWaste application and the functions to load it.
package conf

import (
	"crypto/rand"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/smartwaste/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// ModelSettings configures the waste classification model.
type ModelSettings struct {
	Path       string   // local path of the .tflite model, downloaded here when missing
	URL        string   // remote location used when Path does not exist
	Labels     []string // optional label override, in model output order
	Threads    int      // inference threads, 0 uses physical core count
	UseXNNPACK bool     // true to use the XNNPACK delegate
	InputSize  int      // square input edge in pixels
}

// WebServerSettings configures the HTTP interface.
type WebServerSettings struct {
	Debug         bool          // true to enable echo debug mode
	Port          string        // port for web server
	AutoTLS       bool          // true to obtain certificates with ACME
	Host          string        // public hostname, required for AutoTLS
	SessionSecret string        // key used to sign the session cookie
	SessionTTL    time.Duration // idle lifetime of a user session
	UploadLimit   string        // maximum request body size, e.g. "10M"
}

// SQLiteSettings configures the SQLite idea store.
type SQLiteSettings struct {
	Enabled bool   // true to use sqlite
	Path    string // path to sqlite database
}

// MySQLSettings configures the MySQL idea store.
type MySQLSettings struct {
	Enabled  bool
	Username string
	Password string
	Database string
	Host     string
	Port     string
}

// TranslationSettings configures the machine translation provider used for
// dynamic text such as community ideas.
type TranslationSettings struct {
	Enabled         bool
	Endpoint        string        // LibreTranslate compatible /translate endpoint
	APIKey          string        // optional API key
	RateLimit       float64       // requests per second
	Burst           int           // rate limiter burst
	Timeout         time.Duration // per request timeout
	CacheTTL        time.Duration // how long translations are cached
	DefaultLanguage string        // language used before the user picks one
}

// PushSettings configures moderator push notifications.
type PushSettings struct {
	Enabled bool
	URLs    []string      // shoutrrr service URLs
	Timeout time.Duration // per send timeout
}

// MQTTSettings configures event publishing to an MQTT broker.
type MQTTSettings struct {
	Enabled  bool
	Broker   string
	Topic    string // topic prefix, events go to <topic>/classification and <topic>/idea
	Username string
	Password string
	ClientID string
}

// SentrySettings configures error telemetry.
type SentrySettings struct {
	Enabled     bool
	DSN         string
	Environment string
}

// MetricsSettings configures the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool
}

// Settings contains all configuration options for SmartWaste.
type Settings struct {
	Debug bool // true to enable debug mode

	Version   string `yaml:"-"` // Version from build
	BuildDate string `yaml:"-"` // Build date from build

	Main struct {
		Name string // instance name, shown in notifications
	}

	Logging logger.LoggingConfig

	Model ModelSettings

	WebServer WebServerSettings

	Output struct {
		SQLite SQLiteSettings
		MySQL  MySQLSettings
	}

	Translation TranslationSettings

	Notification struct {
		Push PushSettings
	}

	MQTT MQTTSettings

	Sentry SentrySettings

	Metrics MetricsSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration from the default locations.
func Load() (*Settings, error) {
	return LoadFile("")
}

// LoadFile reads configuration from configFile, or from the default locations
// when configFile is empty, then applies environment overrides and validates.
func LoadFile(configFile string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := configureEnvironmentVariables(); err != nil {
		return nil, err
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if settings.WebServer.SessionSecret == "" {
		settings.WebServer.SessionSecret = GenerateRandomSecret()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper registers defaults and reads the configuration file, creating one
// from the embedded template when none exists.
func initViper(configFile string) error {
	setDefaultConfig()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("fatal error reading config file %s: %w", configFile, err)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return createDefaultConfig(configPaths[0])
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded config.yaml into dir and reads it back.
func createDefaultConfig(dir string) error {
	configPath := filepath.Join(dir, "config.yaml")

	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return fmt.Errorf("error reading embedded config: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	viper.SetConfigFile(configPath)
	return viper.ReadInConfig()
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// GenerateRandomSecret returns a random URL safe string for signing cookies.
func GenerateRandomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(fmt.Sprintf("failed to generate random secret: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
