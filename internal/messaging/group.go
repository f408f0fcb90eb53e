package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable is a topic consumer with a start/stop lifecycle.
type Runnable interface {
	Topic() string
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup runs one consumer per topic over a shared subscriber.
type ConsumerGroup struct {
	consumers  []Runnable
	started    []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger
}

func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers consumer. A topic takes at most one consumer.
func (g *ConsumerGroup) Add(consumer Runnable) error {
	for _, existing := range g.consumers {
		if existing.Topic() == consumer.Topic() {
			return fmt.Errorf("topic %q already has a consumer", consumer.Topic())
		}
	}

	g.consumers = append(g.consumers, consumer)

	return nil
}

// Topics lists the registered topics in registration order.
func (g *ConsumerGroup) Topics() []string {
	topics := make([]string, len(g.consumers))
	for i, consumer := range g.consumers {
		topics[i] = consumer.Topic()
	}

	return topics
}

// Start starts consumers in registration order. On failure the ones already
// running are stopped and nothing is left started.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	for _, consumer := range g.consumers {
		if err := consumer.Start(ctx); err != nil {
			_ = g.stopStarted()

			return fmt.Errorf("start consumer for %s: %w", consumer.Topic(), err)
		}

		g.started = append(g.started, consumer)
		g.logger.Debug("consumer started", zap.String("topic", consumer.Topic()))
	}

	g.logger.Info("consumer group started", zap.Strings("topics", g.Topics()))

	return nil
}

// stopStarted stops running consumers in reverse start order.
func (g *ConsumerGroup) stopStarted() error {
	var errs []error

	for i := len(g.started) - 1; i >= 0; i-- {
		consumer := g.started[i]
		if err := consumer.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("stop consumer for %s: %w", consumer.Topic(), err))
		}
	}

	g.started = nil

	return errors.Join(errs...)
}

// Shutdown stops running consumers, then closes the subscriber. Every step runs
// even if an earlier one fails; the errors are joined.
func (g *ConsumerGroup) Shutdown() error {
	g.logger.Info("stopping consumer group")

	errs := []error{g.stopStarted()}

	if err := g.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close subscriber: %w", err))
	}

	return errors.Join(errs...)
}
