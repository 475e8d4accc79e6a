// Package mqtt publishes classification and community idea events to an MQTT
// broker. Publishing is best effort: failures are logged and never surface
// to the user.
package mqtt

import (
	"context"
	"time"
)

// Client defines the interface for MQTT client operations.
type Client interface {
	// Connect attempts to connect to the MQTT broker.
	Connect(ctx context.Context) error
	// Publish sends payload to topic.
	Publish(ctx context.Context, topic, payload string) error
	// IsConnected returns true while connected to the broker.
	IsConnected() bool
	// Disconnect closes the connection to the broker.
	Disconnect()
}

// Config holds the configuration for the MQTT client.
type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
	// Topic is the prefix for event topics.
	Topic string

	ConnectTimeout    time.Duration
	PublishTimeout    time.Duration
	DisconnectTimeout time.Duration
}

// DefaultConfig returns a Config with reasonable default values
func DefaultConfig() Config {
	return Config{
		ClientID:          "smartwaste",
		Topic:             "smartwaste",
		ConnectTimeout:    30 * time.Second,
		PublishTimeout:    10 * time.Second,
		DisconnectTimeout: 250 * time.Millisecond,
	}
}

// Recorder receives MQTT outcomes.
type Recorder interface {
	RecordMQTTPublish(topic string, size int, err error)
	RecordMQTTConnection(connected bool)
}
