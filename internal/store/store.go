// Package store holds the persistence backends for shortened URLs.
package store

import (
	"context"

	"github.com/serroba/url-shorten/internal/shortener"
)

// Store is what every backend provides: the service's repository, durable
// assignment of short URLs, and a connectivity check.
type Store interface {
	shortener.Repository
	shortener.Assigner
	Ping(ctx context.Context) error
}

// keepShortURL applies the set-once rule when url re-saves a record whose stored
// short URL is stored. An empty url.ShortenedURL inherits the stored one; a
// different one is rejected.
func keepShortURL(url *shortener.URL, stored string) error {
	switch {
	case stored == "" || stored == url.ShortenedURL:
		return nil
	case url.ShortenedURL == "":
		url.ShortenedURL = stored

		return nil
	default:
		return shortener.ErrShortURLTaken
	}
}
