package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/url-shorten/internal/shortener"
)

// RedisCacheStore wraps a Store with a Redis read-through cache for short URL
// lookups. Writes go to the underlying store first.
type RedisCacheStore struct {
	store  Store
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCacheStore creates a new Redis-cached store decorator.
func NewRedisCacheStore(store Store, client redis.UniversalClient, ttl time.Duration) *RedisCacheStore {
	return &RedisCacheStore{
		store:  store,
		client: client,
		prefix: "url_cache:",
		ttl:    ttl,
	}
}

func (r *RedisCacheStore) Save(ctx context.Context, url *shortener.URL) (*shortener.URL, error) {
	saved, err := r.store.Save(ctx, url)
	if err != nil {
		return nil, err
	}

	if saved.ShortenedURL != "" {
		r.cacheURL(ctx, saved)
	}

	return saved, nil
}

// FindByShortenURL checks the cache first and populates it on a miss.
func (r *RedisCacheStore) FindByShortenURL(ctx context.Context, shortURL string) (*shortener.URL, error) {
	if url, err := r.getFromCache(ctx, shortURL); err == nil {
		return url, nil
	}

	url, err := r.store.FindByShortenURL(ctx, shortURL)
	if err != nil {
		return nil, err
	}

	r.cacheURL(ctx, url)

	return url, nil
}

func (r *RedisCacheStore) AssignShortURL(ctx context.Context, url *shortener.URL) error {
	if err := r.store.AssignShortURL(ctx, url); err != nil {
		return err
	}

	r.cacheURL(ctx, url)

	return nil
}

func (r *RedisCacheStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return err
	}

	return r.store.Ping(ctx)
}

func (r *RedisCacheStore) getFromCache(ctx context.Context, shortURL string) (*shortener.URL, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+shortURL).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	return decodeRecord(result), nil
}

// cacheURL is best effort; a failed write only costs a later miss.
func (r *RedisCacheStore) cacheURL(ctx context.Context, url *shortener.URL) {
	pipe := r.client.Pipeline()
	key := r.prefix + url.ShortenedURL

	pipe.HSet(ctx, key, map[string]interface{}{
		fieldID:           url.ID,
		fieldOriginalURL:  url.OriginalURL,
		fieldShortenedURL: url.ShortenedURL,
		fieldCreatedAt:    url.CreatedAt.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

// Shutdown releases the wrapped store. The client is managed by the container.
func (r *RedisCacheStore) Shutdown() error {
	if closer, ok := r.store.(interface{ Shutdown() error }); ok {
		return closer.Shutdown()
	}

	return nil
}

var _ Store = (*RedisCacheStore)(nil)
