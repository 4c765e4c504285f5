package events

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTPublisher mirrors lifecycle events onto an MQTT broker, one topic
// per event type under a common base. Delivery is fire-and-forget; broker
// trouble is logged and never surfaced to the request that triggered it.
type MQTTPublisher struct {
	client    mqtt.Client
	topicBase string
}

// NewMQTTPublisher connects to the broker named by rawURL (for example
// tcp://broker:1883). It blocks until connected or the timeout elapses.
func NewMQTTPublisher(rawURL, topicBase string) (*MQTTPublisher, error) {
	uri, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MQTT URL: %w", err)
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", uri.Host))
	opts.SetClientID("go-tasks-pub")
	if user := uri.User; user != nil {
		opts.SetUsername(user.Username())
		if password, ok := user.Password(); ok {
			opts.SetPassword(password)
		}
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	for !token.WaitTimeout(3 * time.Second) {
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("cannot connect to MQTT broker: %w", err)
	}

	return &MQTTPublisher{client: client, topicBase: topicBase}, nil
}

// Publish implements Sink.
func (p *MQTTPublisher) Publish(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("Error encoding event %q: %v", e.Type, err)
		return
	}

	topic := fmt.Sprintf("%s/%s", p.topicBase, e.Type)
	token := p.client.Publish(topic, 0, false, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("Error publishing event to %s: %v", topic, err)
		}
	}()
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
