package shortener

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/url-shorten/internal/messaging"
)

// TopicURLShortened carries URLShortenedEvent messages.
const TopicURLShortened = "url.shortened"

// URLShortenedEvent announces the short URL computed for a saved record.
type URLShortenedEvent struct {
	ID           int64     `json:"id"`
	OriginalURL  string    `json:"originalUrl"`
	ShortenedURL string    `json:"shortenedUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublishAssigner defers short URL storage to a consumer by publishing an event.
type PublishAssigner struct {
	publish messaging.Publish[URLShortenedEvent]
}

func NewPublishAssigner(publish messaging.Publish[URLShortenedEvent]) *PublishAssigner {
	return &PublishAssigner{publish: publish}
}

func (p *PublishAssigner) AssignShortURL(ctx context.Context, url *URL) error {
	return p.publish(ctx, &URLShortenedEvent{
		ID:           url.ID,
		OriginalURL:  url.OriginalURL,
		ShortenedURL: url.ShortenedURL,
		CreatedAt:    url.CreatedAt,
	})
}

// NewAssignHandler applies URLShortenedEvent messages to a store. Unknown records
// and conflicting short URLs are permanent failures.
func NewAssignHandler(assigner Assigner) messaging.Handler[URLShortenedEvent] {
	return func(ctx context.Context, event *URLShortenedEvent) error {
		err := assigner.AssignShortURL(ctx, &URL{
			ID:           event.ID,
			OriginalURL:  event.OriginalURL,
			ShortenedURL: event.ShortenedURL,
			CreatedAt:    event.CreatedAt,
		})
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrShortURLTaken) {
			return messaging.Permanent(err)
		}

		return err
	}
}
