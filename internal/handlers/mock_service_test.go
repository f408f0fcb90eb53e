package handlers_test

import (
	"context"
	"errors"

	"github.com/serroba/url-shorten/internal/shortener"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com/very/long/path"

// mockService is a test double for handlers.Shortener.
type mockService struct {
	shortenErr  error
	retrieveErr error

	gotURL      string
	gotStrategy shortener.IDStrategy
}

func (m *mockService) Shorten(
	_ context.Context, originalURL string, strategy shortener.IDStrategy,
) (*shortener.Result, error) {
	m.gotURL = originalURL
	m.gotStrategy = strategy

	if m.shortenErr != nil {
		return nil, m.shortenErr
	}

	return &shortener.Result{ID: 1, OriginalURL: originalURL, ShortenURL: "example.com/1", Strategy: strategy}, nil
}

func (m *mockService) Retrieve(_ context.Context, _ string) (*shortener.URL, error) {
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}

	return &shortener.URL{ID: 1, OriginalURL: testURL, ShortenedURL: "example.com/1"}, nil
}
