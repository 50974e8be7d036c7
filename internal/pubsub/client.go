package pubsub

import (
	"context"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New returns a Google Cloud Pub/Sub client, or a Noop client when no
// project is configured.
func New(projectID string) PubSubClient {
	if projectID == "" {
		log.Info("No GCP project configured, pub/sub relay disabled")
		return Noop{}
	}
	ctx := context.Background()
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	c := &client{
		client:  pubSubC,
		ordered: make(map[EventType]*pubsub.Topic),
	}
	c.teardown = func() {
		c.mu.Lock()
		for _, t := range c.ordered {
			t.Stop()
		}
		c.mu.Unlock()
		pubSubC.Close()
	}
	return c
}

func (c *client) SendMessage(topic EventType, data any) error {
	ctx := context.Background()
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data: msgpackData,
	}
	result := c.client.Topic(string(topic)).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Debug("SendMessage", "serverID", serverID, "topic", topic)
	return nil
}

func (c *client) SendOrderedMessage(topic EventType, orderingKey string, data any) error {
	ctx := context.Background()
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	t := c.orderedTopic(topic)
	result := t.Publish(ctx, &pubsub.Message{
		Data:        msgpackData,
		OrderingKey: orderingKey,
	})
	serverID, err := result.Get(ctx)
	if err != nil {
		// a failed ordered publish pauses the key until resumed
		t.ResumePublish(orderingKey)
		log.Error("Failed to publish ordered message", "error", err, "topic", topic, "orderingKey", orderingKey)
		return err
	}
	log.Debug("SendOrderedMessage", "serverID", serverID, "topic", topic, "orderingKey", orderingKey)
	return nil
}

func (c *client) orderedTopic(topic EventType) *pubsub.Topic {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.ordered[topic]
	if !ok {
		t = c.client.Topic(string(topic))
		t.EnableMessageOrdering = true
		c.ordered[topic] = t
	}
	return t
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (c *client) Close() {
	c.teardown()
}

// Noop drops outgoing messages. It still decodes incoming payloads so push
// endpoints keep working on a single instance.
type Noop struct{}

func (Noop) SendMessage(topic EventType, data any) error {
	log.Debug("Pub/sub disabled, dropping message", "topic", topic)
	return nil
}

func (Noop) SendOrderedMessage(topic EventType, orderingKey string, data any) error {
	log.Debug("Pub/sub disabled, dropping message", "topic", topic, "orderingKey", orderingKey)
	return nil
}

func (Noop) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (Noop) Close() {}

func decode(data []byte, returnValue any) error {
	err := msgpack.Unmarshal(data, returnValue)
	if err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}
