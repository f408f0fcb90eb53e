package shortener

import "context"

// Repository is the persistence boundary the service depends on.
type Repository interface {
	// Save persists the record, assigning ID when it is zero, and returns it.
	Save(ctx context.Context, url *URL) (*URL, error)

	// FindByShortenURL returns the record owning the short URL or ErrNotFound.
	FindByShortenURL(ctx context.Context, shortURL string) (*URL, error)
}

// Assigner durably records the short URL computed for an already saved record.
type Assigner interface {
	AssignShortURL(ctx context.Context, url *URL) error
}
