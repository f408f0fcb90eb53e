package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/url-shorten/internal/logging"
	"github.com/serroba/url-shorten/internal/shortener"
	"go.uber.org/zap"
)

// Shortener is the core service the handlers translate requests into.
type Shortener interface {
	Shorten(ctx context.Context, originalURL string, strategy shortener.IDStrategy) (*shortener.Result, error)
	Retrieve(ctx context.Context, shortURL string) (*shortener.URL, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service Shortener
	logger  *zap.Logger
}

func NewURLHandler(service Shortener, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		service: service,
		logger:  logger,
	}
}

func (h *URLHandler) ShortenURL(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	strategy := shortener.DefaultStrategy

	if req.Body.Strategy != "" {
		parsed, err := shortener.ParseIDStrategy(req.Body.Strategy)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid strategy: must be one of base62, base36, base58, sqids")
		}

		strategy = parsed
	}

	result, err := h.service.Shorten(ctx, req.Body.URL, strategy)
	if err != nil {
		if errors.Is(err, shortener.ErrInvalidURL) {
			return nil, huma.Error400BadRequest("invalid url", err)
		}

		logging.FromContext(ctx, h.logger).Error("failed to shorten url",
			zap.String("url", req.Body.URL),
			zap.String("strategy", strategy.String()),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to shorten url")
	}

	resp := &ShortenResponse{}
	resp.Body.ID = result.ID
	resp.Body.OriginalURL = result.OriginalURL
	resp.Body.ShortenURL = result.ShortenURL
	resp.Body.Strategy = result.Strategy.String()

	return resp, nil
}

func (h *URLHandler) ResolveURL(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	url, err := h.service.Retrieve(ctx, req.ShortURL)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		logging.FromContext(ctx, h.logger).Error("failed to resolve url",
			zap.String("short_url", req.ShortURL),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	resp := &ResolveResponse{}
	resp.Body.ID = url.ID
	resp.Body.OriginalURL = url.OriginalURL
	resp.Body.ShortenURL = url.ShortenedURL
	resp.Body.CreatedAt = url.CreatedAt

	return resp, nil
}
