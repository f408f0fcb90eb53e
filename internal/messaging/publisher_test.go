package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/url-shorten/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
	closeErr   error
	closed     bool
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	m.closed = true

	return m.closeErr
}

type publishTestEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes json payload on topic", func(t *testing.T) {
		mock := &mockPublisher{}
		publish := messaging.NewPublishFunc[publishTestEvent](mock, "test.topic")

		err := publish(context.Background(), &publishTestEvent{ID: "123", Name: "test"})

		require.NoError(t, err)
		assert.Equal(t, "test.topic", mock.topic)
		require.Len(t, mock.messages, 1)
		assert.JSONEq(t, `{"id":"123","name":"test"}`, string(mock.messages[0].Payload))
		assert.Equal(t, "test.topic", mock.messages[0].Metadata.Get(messaging.MetadataTopic))
		assert.NotEmpty(t, mock.messages[0].UUID)
	})

	t.Run("attaches caller context to message", func(t *testing.T) {
		type ctxKey struct{}

		mock := &mockPublisher{}
		publish := messaging.NewPublishFunc[publishTestEvent](mock, "test.topic")
		ctx := context.WithValue(context.Background(), ctxKey{}, "value")

		err := publish(ctx, &publishTestEvent{ID: "1"})

		require.NoError(t, err)
		require.Len(t, mock.messages, 1)
		assert.Equal(t, "value", mock.messages[0].Context().Value(ctxKey{}))
	})

	t.Run("returns error when publish fails", func(t *testing.T) {
		mock := &mockPublisher{publishErr: errors.New("publish error")}
		publish := messaging.NewPublishFunc[publishTestEvent](mock, "test.topic")

		err := publish(context.Background(), &publishTestEvent{ID: "123"})

		assert.Error(t, err)
	})
}

func TestPublisher_Shutdown(t *testing.T) {
	t.Run("closes underlying publisher", func(t *testing.T) {
		mock := &mockPublisher{}
		pub := messaging.NewPublisher(mock)

		err := pub.Shutdown()

		require.NoError(t, err)
		assert.True(t, mock.closed)
	})

	t.Run("returns error when close fails", func(t *testing.T) {
		mock := &mockPublisher{closeErr: errors.New("close error")}
		pub := messaging.NewPublisher(mock)

		err := pub.Shutdown()

		assert.Error(t, err)
	})
}
