package shortener_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/url-shorten/internal/messaging"
	"github.com/serroba/url-shorten/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishAssigner(t *testing.T) {
	t.Run("publishes the assigned record", func(t *testing.T) {
		var published []*shortener.URLShortenedEvent

		publish := func(_ context.Context, event *shortener.URLShortenedEvent) error {
			published = append(published, event)

			return nil
		}

		created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		assigner := shortener.NewPublishAssigner(publish)

		err := assigner.AssignShortURL(context.Background(), &shortener.URL{
			ID:           7,
			OriginalURL:  "https://example.com/a",
			ShortenedURL: "example.com/7",
			CreatedAt:    created,
		})

		require.NoError(t, err)
		require.Len(t, published, 1)
		assert.Equal(t, &shortener.URLShortenedEvent{
			ID:           7,
			OriginalURL:  "https://example.com/a",
			ShortenedURL: "example.com/7",
			CreatedAt:    created,
		}, published[0])
	})

	t.Run("returns publish error", func(t *testing.T) {
		assigner := shortener.NewPublishAssigner(func(context.Context, *shortener.URLShortenedEvent) error {
			return errMock
		})

		err := assigner.AssignShortURL(context.Background(), &shortener.URL{ID: 1})

		assert.ErrorIs(t, err, errMock)
	})

	t.Run("service publishes through the assigner", func(t *testing.T) {
		var published []*shortener.URLShortenedEvent

		assigner := shortener.NewPublishAssigner(func(_ context.Context, event *shortener.URLShortenedEvent) error {
			published = append(published, event)

			return nil
		})
		svc := newTestService(newSpyRepository(), shortener.WithAssigner(assigner))

		result, err := svc.Shorten(context.Background(), goodURL, shortener.StrategyBase62)

		require.NoError(t, err)
		require.Len(t, published, 1)
		assert.Equal(t, result.ShortenURL, published[0].ShortenedURL)
		assert.Equal(t, fixedID, published[0].ID)
	})
}

func TestNewAssignHandler(t *testing.T) {
	event := &shortener.URLShortenedEvent{ID: 3, OriginalURL: "https://example.com", ShortenedURL: "example.com/3"}

	t.Run("applies event to assigner", func(t *testing.T) {
		assigner := &spyAssigner{}
		handle := shortener.NewAssignHandler(assigner)

		require.NoError(t, handle(context.Background(), event))
		require.Len(t, assigner.assigned, 1)
		assert.Equal(t, int64(3), assigner.assigned[0].ID)
		assert.Equal(t, "example.com/3", assigner.assigned[0].ShortenedURL)
	})

	t.Run("conflicts are permanent", func(t *testing.T) {
		handle := shortener.NewAssignHandler(&spyAssigner{err: shortener.ErrShortURLTaken})

		err := handle(context.Background(), event)

		assert.True(t, messaging.IsPermanent(err))
		assert.ErrorIs(t, err, shortener.ErrShortURLTaken)
	})

	t.Run("unknown records are permanent", func(t *testing.T) {
		handle := shortener.NewAssignHandler(&spyAssigner{err: shortener.ErrNotFound})

		assert.True(t, messaging.IsPermanent(handle(context.Background(), event)))
	})

	t.Run("other errors are retried", func(t *testing.T) {
		handle := shortener.NewAssignHandler(&spyAssigner{err: errMock})

		err := handle(context.Background(), event)

		assert.False(t, messaging.IsPermanent(err))
		assert.ErrorIs(t, err, errMock)
	})
}
