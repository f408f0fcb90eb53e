package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// MetadataTopic is set on every published message so consumers can log where it came from.
const MetadataTopic = "topic"

// Publish sends a typed event.
type Publish[T any] func(ctx context.Context, event *T) error

// NewPublishFunc returns a Publish that JSON-encodes events onto topic.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(ctx context.Context, event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", topic, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.SetContext(ctx)
		msg.Metadata.Set(MetadataTopic, topic)

		return publisher.Publish(topic, msg)
	}
}

// Publisher owns a message.Publisher so it is closed when the container shuts down.
type Publisher struct {
	message.Publisher
}

// NewPublisher wraps publisher.
func NewPublisher(publisher message.Publisher) *Publisher {
	return &Publisher{Publisher: publisher}
}

// Shutdown closes the underlying publisher.
func (p *Publisher) Shutdown() error {
	return p.Close()
}
