package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"time"
)

// DefaultMQTTTopic is the topic readings are published on.
const DefaultMQTTTopic = "smartlamp/telemetry"

// Publisher is the part of mqtt.Client used to publish readings.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes fields as a JSON message on an MQTT topic.
type MQTT struct {
	Client  Publisher
	Topic   string
	Timeout time.Duration
	// GetCurrentTime returns the timestamp of the message. Defaults to time.Now.
	GetCurrentTime func() time.Time
}

var _ Uploader = MQTT{}

// Message is the payload published for each upload.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Fields    Fields    `json:"fields"`
}

func (m MQTT) Upload(ctx context.Context, fields Fields) error {
	now := time.Now
	if m.GetCurrentTime != nil {
		now = m.GetCurrentTime
	}
	payload, err := json.Marshal(Message{Timestamp: now(), Fields: fields})
	if err != nil {
		return fmt.Errorf("mqtt: marshal: %w", err)
	}

	token := m.Client.Publish(m.Topic, 0, false, payload)
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(timeout):
		return fmt.Errorf("%w: mqtt: publish timed out", ErrRemoteService)
	}
	if err = token.Error(); err != nil {
		return fmt.Errorf("%w: mqtt: %w", ErrRemoteService, err)
	}
	return nil
}

// Connect connects to an MQTT broker.
func Connect(broker, clientID string, timeout time.Duration) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout)
	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, errors.New("mqtt: connect timed out")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect: %w", err)
	}
	return c, nil
}
