package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	// connectTimeout bounds the initial broker handshake.
	connectTimeout = 5 * time.Second
	// publishTimeout bounds a single publish token wait.
	publishTimeout = 2 * time.Second
)

// MQTTPublisher publishes retained status snapshots to a single topic.
type MQTTPublisher struct {
	// client is the paho MQTT client.
	client mqtt.Client
	// topic is the status topic.
	topic string
}

// NewMQTTPublisher connects to the broker and returns a publisher.
// The client reconnects automatically; publishes while disconnected fail
// fast instead of queueing.
func NewMQTTPublisher(broker, clientID, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetConnectRetry(true)

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: timeout", broker)
	}

	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}

	return &MQTTPublisher{
		client: client,
		topic:  topic,
	}, nil
}

// PublishStatus sends one retained snapshot, bounded by publishTimeout.
func (p *MQTTPublisher) PublishStatus(s Status) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}

	token := p.client.Publish(p.topic, 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", p.topic)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", p.topic, err)
	}

	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
