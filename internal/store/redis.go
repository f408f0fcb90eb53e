package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/url-shorten/internal/shortener"
)

const (
	fieldID           = "id"
	fieldOriginalURL  = "original_url"
	fieldShortenedURL = "shortened_url"
	fieldCreatedAt    = "created_at"
)

// RedisStore is a Redis implementation of Store. Identifiers come from INCR on
// a sequence key; each record is a hash and short URLs are indexed in one hash.
type RedisStore struct {
	client   redis.UniversalClient
	prefix   string // "url:" + id -> record hash
	seqKey   string // identifier sequence
	shortKey string // short url -> id
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client:   client,
		prefix:   "url:",
		seqKey:   "url_seq",
		shortKey: "url_short",
	}
}

func (r *RedisStore) recordKey(id int64) string {
	return r.prefix + strconv.FormatInt(id, 10)
}

// advanceSeq moves the sequence to ARGV[1] unless it is already past it.
var advanceSeq = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
local id = tonumber(ARGV[1])
if id > current then
	redis.call("SET", KEYS[1], ARGV[1])
end
return 0
`)

func (r *RedisStore) Save(ctx context.Context, url *shortener.URL) (*shortener.URL, error) {
	if url.ID == 0 {
		id, err := r.client.Incr(ctx, r.seqKey).Result()
		if err != nil {
			return nil, err
		}

		url.ID = id
	} else if err := r.prepareExplicitID(ctx, url); err != nil {
		return nil, err
	}

	claimed := false

	if url.ShortenedURL != "" {
		var err error
		if claimed, err = r.indexShortURL(ctx, url); err != nil {
			return nil, err
		}
	}

	err := r.client.HSet(ctx, r.recordKey(url.ID), map[string]interface{}{
		fieldID:           url.ID,
		fieldOriginalURL:  url.OriginalURL,
		fieldShortenedURL: url.ShortenedURL,
		fieldCreatedAt:    url.CreatedAt.UnixNano(),
	}).Err()
	if err != nil {
		r.releaseShortURL(ctx, url, claimed)

		return nil, err
	}

	return url, nil
}

// prepareExplicitID keeps an already stored short URL and moves the sequence
// past url.ID so INCR never hands it out again.
func (r *RedisStore) prepareExplicitID(ctx context.Context, url *shortener.URL) error {
	stored, err := r.client.HGet(ctx, r.recordKey(url.ID), fieldShortenedURL).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	if err := keepShortURL(url, stored); err != nil {
		return err
	}

	return advanceSeq.Run(ctx, r.client, []string{r.seqKey}, url.ID).Err()
}

// indexShortURL claims the short URL for url.ID and reports whether this call
// created the claim. A claim held by another record is ErrShortURLTaken.
func (r *RedisStore) indexShortURL(ctx context.Context, url *shortener.URL) (bool, error) {
	set, err := r.client.HSetNX(ctx, r.shortKey, url.ShortenedURL, url.ID).Result()
	if err != nil {
		return false, err
	}

	if set {
		return true, nil
	}

	owner, err := r.client.HGet(ctx, r.shortKey, url.ShortenedURL).Int64()
	if err != nil {
		return false, err
	}

	if owner != url.ID {
		return false, shortener.ErrShortURLTaken
	}

	return false, nil
}

// releaseShortURL undoes a claim made by this call when the record write failed.
func (r *RedisStore) releaseShortURL(ctx context.Context, url *shortener.URL, claimed bool) {
	if claimed {
		_ = r.client.HDel(ctx, r.shortKey, url.ShortenedURL).Err()
	}
}

func (r *RedisStore) FindByShortenURL(ctx context.Context, shortURL string) (*shortener.URL, error) {
	id, err := r.client.HGet(ctx, r.shortKey, shortURL).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	fields, err := r.client.HGetAll(ctx, r.recordKey(id)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, shortener.ErrNotFound
	}

	return decodeRecord(fields), nil
}

// AssignShortURL sets the short URL once; repeating the same value is a no-op.
func (r *RedisStore) AssignShortURL(ctx context.Context, url *shortener.URL) error {
	key := r.recordKey(url.ID)

	current, err := r.client.HGet(ctx, key, fieldShortenedURL).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return shortener.ErrNotFound
		}

		return err
	}

	if current != "" && current != url.ShortenedURL {
		return shortener.ErrShortURLTaken
	}

	claimed, err := r.indexShortURL(ctx, url)
	if err != nil {
		return err
	}

	if err := r.client.HSet(ctx, key, fieldShortenedURL, url.ShortenedURL).Err(); err != nil {
		r.releaseShortURL(ctx, url, claimed)

		return err
	}

	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func decodeRecord(fields map[string]string) *shortener.URL {
	url := &shortener.URL{
		OriginalURL:  fields[fieldOriginalURL],
		ShortenedURL: fields[fieldShortenedURL],
	}

	if id, err := strconv.ParseInt(fields[fieldID], 10, 64); err == nil {
		url.ID = id
	}

	if nanos, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64); err == nil {
		url.CreatedAt = time.Unix(0, nanos).UTC()
	}

	return url
}

var _ Store = (*RedisStore)(nil)
