// Package bridge is an optional outbound export: when configured with a
// broker URL, it republishes topic lifecycle events (publisherUpdate,
// topic registered/retired) onto an external MQTT broker under
// ros/<topic>/publishers, so non-XML-RPC observers (dashboards, logging
// sinks) can watch the graph without speaking XML-RPC. It is purely
// additive: the master never subscribes to or depends on MQTT for its own
// correctness (SPEC_FULL domain-stack table), and it does not constitute a
// second source of truth for §1's persistence non-goal.
//
// Grounded on github.com/eclipse/paho.mqtt.golang, the pack's MQTT client
// of choice.
package bridge

import (
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// Bridge publishes topic lifecycle events to an MQTT broker.
type Bridge struct {
	client mqtt.Client
	log    *zap.Logger
}

// Connect dials brokerURL (e.g. "tcp://localhost:1883") and returns a ready
// Bridge. clientID should be unique per master instance.
func Connect(brokerURL, clientID string, log *zap.Logger) (*Bridge, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return nil, fmt.Errorf("bridge: timed out connecting to %s", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("bridge: connect to %s: %w", brokerURL, err)
	}
	return &Bridge{client: client, log: log}, nil
}

// PublisherUpdate republishes a topic's new publisher list.
func (b *Bridge) PublisherUpdate(topic string, publisherURLs []string) {
	b.publish("ros/"+topicSegment(topic)+"/publishers", strings.Join(publisherURLs, ","))
}

// TopicRegistered announces a newly typed topic.
func (b *Bridge) TopicRegistered(topic, topicType string) {
	b.publish("ros/"+topicSegment(topic)+"/registered", topicType)
}

// TopicRetired announces a topic with no remaining publishers.
func (b *Bridge) TopicRetired(topic string) {
	b.publish("ros/"+topicSegment(topic)+"/retired", "")
}

func (b *Bridge) publish(mqttTopic, payload string) {
	token := b.client.Publish(mqttTopic, 0, false, payload)
	go func() {
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			b.log.Warn("mqtt publish failed", zap.String("topic", mqttTopic), zap.Error(token.Error()))
		}
	}()
}

// topicSegment strips the leading slash from a ROS topic name so it
// composes cleanly as an MQTT topic segment (MQTT topics must not start
// with "/" by convention, though the broker would accept it).
func topicSegment(topic string) string {
	return strings.TrimPrefix(topic, "/")
}

// Close disconnects from the broker.
func (b *Bridge) Close() {
	b.client.Disconnect(250)
}
