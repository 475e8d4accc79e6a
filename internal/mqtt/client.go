package mqtt

import (
	"context"
	"net/url"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
	"github.com/tphakala/smartwaste/internal/privacy"
)

// client implements the Client interface.
type client struct {
	config         Config
	internalClient paho.Client
	recorder       Recorder
	mu             sync.Mutex
}

// NewClient creates a client from settings. recorder may be nil.
func NewClient(settings *conf.Settings, recorder Recorder) (Client, error) {
	cfg := DefaultConfig()
	cfg.Broker = settings.MQTT.Broker
	cfg.Username = settings.MQTT.Username
	cfg.Password = settings.MQTT.Password
	if settings.MQTT.ClientID != "" {
		cfg.ClientID = settings.MQTT.ClientID
	}
	if settings.MQTT.Topic != "" {
		cfg.Topic = settings.MQTT.Topic
	}
	return NewClientWithConfig(cfg, recorder)
}

// NewClientWithConfig creates a client from cfg after checking the broker URL.
func NewClientWithConfig(cfg Config, recorder Recorder) (Client, error) {
	u, err := url.Parse(cfg.Broker)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf("invalid broker URL %q", privacy.RedactURL(cfg.Broker)).
			Component("mqtt").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return &client{config: cfg, recorder: recorder}, nil
}

// Connect establishes the connection. paho reconnects on its own afterwards.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	opts := paho.NewClientOptions()
	opts.AddBroker(c.config.Broker)
	opts.SetClientID(c.config.ClientID)
	opts.SetUsername(c.config.Username)
	opts.SetPassword(c.config.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(c.config.ConnectTimeout)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)

	c.internalClient = paho.NewClient(opts)

	timeout := c.config.ConnectTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	token := c.internalClient.Connect()
	if !token.WaitTimeout(timeout) {
		return errors.Newf("connection timeout").
			Component("mqtt").
			Category(errors.CategoryMQTTConnect).
			Context("broker", privacy.RedactURL(c.config.Broker)).
			Build()
	}
	if err := token.Error(); err != nil {
		return errors.New(privacy.WrapError(err)).
			Component("mqtt").
			Category(errors.CategoryMQTTConnect).
			Context("broker", privacy.RedactURL(c.config.Broker)).
			Build()
	}
	return nil
}

// Publish sends payload to topic with QoS 0.
func (c *client) Publish(_ context.Context, topic, payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.publishLocked(topic, payload)
	if c.recorder != nil {
		c.recorder.RecordMQTTPublish(topic, len(payload), err)
	}
	return err
}

func (c *client) publishLocked(topic, payload string) error {
	if !c.isConnectedLocked() {
		return errors.Newf("not connected to MQTT broker").
			Component("mqtt").
			Category(errors.CategoryMQTTPublish).
			Context("topic", topic).
			Build()
	}

	token := c.internalClient.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(c.config.PublishTimeout) {
		return errors.Newf("publish timeout").
			Component("mqtt").
			Category(errors.CategoryMQTTPublish).
			Context("topic", topic).
			Build()
	}
	if err := token.Error(); err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTTPublish).
			Context("topic", topic).
			Build()
	}
	GetLogger().Debug("published", logger.String("topic", topic), logger.Int("size", len(payload)))
	return nil
}

// IsConnected returns true if the client is currently connected to the MQTT broker.
func (c *client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnectedLocked()
}

func (c *client) isConnectedLocked() bool {
	return c.internalClient != nil && c.internalClient.IsConnected()
}

// Disconnect closes the connection to the MQTT broker.
func (c *client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.internalClient != nil {
		c.internalClient.Disconnect(uint(c.config.DisconnectTimeout.Milliseconds())) //nolint:gosec // small positive duration
		c.internalClient = nil
	}
	if c.recorder != nil {
		c.recorder.RecordMQTTConnection(false)
	}
}

func (c *client) onConnect(_ paho.Client) {
	GetLogger().Info("connected to MQTT broker", logger.String("broker", privacy.RedactURL(c.config.Broker)))
	if c.recorder != nil {
		c.recorder.RecordMQTTConnection(true)
	}
}

func (c *client) onConnectionLost(_ paho.Client, err error) {
	GetLogger().Warn("connection to MQTT broker lost",
		logger.String("broker", privacy.RedactURL(c.config.Broker)),
		logger.Error(privacy.WrapError(err)))
	if c.recorder != nil {
		c.recorder.RecordMQTTConnection(false)
	}
}
