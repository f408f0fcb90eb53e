package shortener

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Service shortens URLs and resolves short URLs back to their records.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	repo     Repository
	assigner Assigner
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithAssigner makes Shorten hand every computed short URL to a for durable storage.
func WithAssigner(a Assigner) Option {
	return func(s *Service) {
		s.assigner = a
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Shorten saves originalURL and derives its short URL from the identifier the
// store assigned, as host + Separator + strategy encoding.
//
// The record is saved before the URL is validated, so an invalid URL is still
// persisted (without a short URL) and ErrInvalidURL is returned. Store and
// assigner errors are returned unchanged.
func (s *Service) Shorten(ctx context.Context, originalURL string, strategy IDStrategy) (*Result, error) {
	if !strategy.Valid() {
		return nil, errors.Wrapf(ErrUnknownStrategy, "%q", string(strategy))
	}

	record, err := s.repo.Save(ctx, &URL{
		OriginalURL: originalURL,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, err
	}

	host, err := ValidateURL(record.OriginalURL)
	if err != nil {
		s.logger.Debug("rejected url",
			zap.Int64("id", record.ID),
			zap.String("original_url", record.OriginalURL),
			zap.Error(err),
		)

		return nil, err
	}

	if record.ID <= 0 {
		return nil, errors.Wrapf(ErrMissingIdentifier, "saved %q with id %d", originalURL, record.ID)
	}

	code, err := strategy.Encode(uint64(record.ID))
	if err != nil {
		return nil, err
	}

	record.ShortenedURL = host + Separator + code

	if s.assigner != nil {
		if err := s.assigner.AssignShortURL(ctx, record); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("shortened url",
		zap.Int64("id", record.ID),
		zap.String("strategy", strategy.String()),
		zap.String("shortened_url", record.ShortenedURL),
	)

	return &Result{
		ID:          record.ID,
		OriginalURL: record.OriginalURL,
		ShortenURL:  record.ShortenedURL,
		Strategy:    strategy,
	}, nil
}

// Retrieve returns whatever the store holds for shortURL; ErrNotFound when absent.
func (s *Service) Retrieve(ctx context.Context, shortURL string) (*URL, error) {
	return s.repo.FindByShortenURL(ctx, shortURL)
}
