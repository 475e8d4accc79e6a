// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "SmartWaste")

	viper.SetDefault("logging.default_level", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.file_output.enabled", false)
	viper.SetDefault("logging.file_output.path", "logs/smartwaste.log")
	viper.SetDefault("logging.file_output.level", "info")

	viper.SetDefault("model.path", "models/waste_classifier.tflite")
	viper.SetDefault("model.url", "")
	viper.SetDefault("model.labels", []string{})
	viper.SetDefault("model.threads", 0)
	viper.SetDefault("model.usexnnpack", true)
	viper.SetDefault("model.inputsize", 224)

	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.autotls", false)
	viper.SetDefault("webserver.host", "")
	viper.SetDefault("webserver.sessionsecret", "")
	viper.SetDefault("webserver.sessionttl", 2*time.Hour)
	viper.SetDefault("webserver.uploadlimit", "10M")

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "waste_management.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("translation.enabled", false)
	viper.SetDefault("translation.endpoint", "http://localhost:5000/translate")
	viper.SetDefault("translation.apikey", "")
	viper.SetDefault("translation.ratelimit", 5.0)
	viper.SetDefault("translation.burst", 10)
	viper.SetDefault("translation.timeout", 5*time.Second)
	viper.SetDefault("translation.cachettl", 24*time.Hour)
	viper.SetDefault("translation.defaultlanguage", "en")

	viper.SetDefault("notification.push.enabled", false)
	viper.SetDefault("notification.push.urls", []string{})
	viper.SetDefault("notification.push.timeout", 10*time.Second)

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.topic", "smartwaste")
	viper.SetDefault("mqtt.clientid", "smartwaste")

	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.environment", "production")

	viper.SetDefault("metrics.enabled", true)
}
