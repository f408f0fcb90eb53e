// Package storetest checks that a store.Store backend honours the repository contract.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/url-shorten/internal/shortener"
	"github.com/serroba/url-shorten/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Factory returns an empty (or at least isolated) store for one subtest.
type Factory func(t *testing.T) store.Store

// Run exercises s against the contract shared by all backends. Short URLs are
// made unique per run so the suite can run against persistent databases.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	ctx := context.Background()

	t.Run("save assigns distinct identifiers", func(t *testing.T) {
		s := newStore(t)

		first := &shortener.URL{OriginalURL: "https://example.com/1", CreatedAt: now()}
		second := &shortener.URL{OriginalURL: "https://example.com/2", CreatedAt: now()}

		savedFirst, err := s.Save(ctx, first)
		require.NoError(t, err)

		savedSecond, err := s.Save(ctx, second)
		require.NoError(t, err)

		assert.Same(t, first, savedFirst)
		assert.Same(t, second, savedSecond)
		assert.Positive(t, first.ID)
		assert.Positive(t, second.ID)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("save keeps invalid urls", func(t *testing.T) {
		s := newStore(t)

		saved, err := s.Save(ctx, &shortener.URL{OriginalURL: "hmerhmeoj(you'tueido", CreatedAt: now()})

		require.NoError(t, err)
		assert.Positive(t, saved.ID)
	})

	t.Run("find unknown short url returns ErrNotFound", func(t *testing.T) {
		s := newStore(t)

		got, err := s.FindByShortenURL(ctx, unique("example.com/missing"))

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("assign then find", func(t *testing.T) {
		s := newStore(t)
		created := now()

		record, err := s.Save(ctx, &shortener.URL{OriginalURL: "https://example.com/a", CreatedAt: created})
		require.NoError(t, err)

		record.ShortenedURL = unique("example.com/a")
		require.NoError(t, s.AssignShortURL(ctx, record))

		got, err := s.FindByShortenURL(ctx, record.ShortenedURL)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, "https://example.com/a", got.OriginalURL)
		assert.Equal(t, record.ShortenedURL, got.ShortenedURL)
		assert.WithinDuration(t, created, got.CreatedAt, time.Second)
	})

	t.Run("save with short url is findable", func(t *testing.T) {
		s := newStore(t)
		short := unique("example.com/direct")

		record, err := s.Save(ctx, &shortener.URL{
			OriginalURL:  "https://example.com/direct",
			ShortenedURL: short,
			CreatedAt:    now(),
		})
		require.NoError(t, err)

		got, err := s.FindByShortenURL(ctx, short)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
	})

	t.Run("assign is idempotent for the same value", func(t *testing.T) {
		s := newStore(t)

		record, err := s.Save(ctx, &shortener.URL{OriginalURL: "https://example.com/b", CreatedAt: now()})
		require.NoError(t, err)

		record.ShortenedURL = unique("example.com/b")
		require.NoError(t, s.AssignShortURL(ctx, record))
		assert.NoError(t, s.AssignShortURL(ctx, record))
	})

	t.Run("assign a different value is rejected", func(t *testing.T) {
		s := newStore(t)

		record, err := s.Save(ctx, &shortener.URL{OriginalURL: "https://example.com/c", CreatedAt: now()})
		require.NoError(t, err)

		original := unique("example.com/c")
		record.ShortenedURL = original
		require.NoError(t, s.AssignShortURL(ctx, record))

		record.ShortenedURL = unique("example.com/other")
		assert.ErrorIs(t, s.AssignShortURL(ctx, record), shortener.ErrShortURLTaken)

		got, err := s.FindByShortenURL(ctx, original)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
	})

	t.Run("assign a short url owned by another record is rejected", func(t *testing.T) {
		s := newStore(t)
		short := unique("example.com/shared")

		owner, err := s.Save(ctx, &shortener.URL{OriginalURL: "https://example.com/d", CreatedAt: now()})
		require.NoError(t, err)

		owner.ShortenedURL = short
		require.NoError(t, s.AssignShortURL(ctx, owner))

		other, err := s.Save(ctx, &shortener.URL{OriginalURL: "https://example.com/e", CreatedAt: now()})
		require.NoError(t, err)

		other.ShortenedURL = short
		assert.ErrorIs(t, s.AssignShortURL(ctx, other), shortener.ErrShortURLTaken)
	})

	t.Run("assign unknown record returns ErrNotFound", func(t *testing.T) {
		s := newStore(t)

		err := s.AssignShortURL(ctx, &shortener.URL{ID: 1 << 60, ShortenedURL: unique("example.com/ghost")})

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("explicit identifier is never handed out again", func(t *testing.T) {
		s := newStore(t)

		first, err := s.Save(ctx, &shortener.URL{OriginalURL: "https://example.com/first", CreatedAt: now()})
		require.NoError(t, err)

		explicitID := first.ID + 5
		short := unique("example.com/explicit")

		explicit, err := s.Save(ctx, &shortener.URL{
			ID:           explicitID,
			OriginalURL:  "https://example.com/explicit",
			ShortenedURL: short,
			CreatedAt:    now(),
		})
		require.NoError(t, err)
		assert.Equal(t, explicitID, explicit.ID)

		seen := map[int64]bool{first.ID: true, explicitID: true}

		for i := 0; i < 6; i++ {
			record, err := s.Save(ctx, &shortener.URL{OriginalURL: "https://example.com/next", CreatedAt: now()})
			require.NoError(t, err, "save %d", i)
			assert.False(t, seen[record.ID], "identifier %d handed out twice", record.ID)

			seen[record.ID] = true
		}

		got, err := s.FindByShortenURL(ctx, short)
		require.NoError(t, err)
		assert.Equal(t, explicitID, got.ID)
		assert.Equal(t, "https://example.com/explicit", got.OriginalURL)
		assert.Equal(t, short, got.ShortenedURL)
	})

	t.Run("resave keeps the assigned short url", func(t *testing.T) {
		s := newStore(t)

		record, err := s.Save(ctx, &shortener.URL{OriginalURL: "https://example.com/f", CreatedAt: now()})
		require.NoError(t, err)

		short := unique("example.com/f")
		record.ShortenedURL = short
		require.NoError(t, s.AssignShortURL(ctx, record))

		resaved, err := s.Save(ctx, &shortener.URL{ID: record.ID, OriginalURL: "https://example.com/f", CreatedAt: now()})
		require.NoError(t, err)
		assert.Equal(t, short, resaved.ShortenedURL)

		_, err = s.Save(ctx, &shortener.URL{
			ID:           record.ID,
			OriginalURL:  "https://example.com/f",
			ShortenedURL: unique("example.com/replacement"),
			CreatedAt:    now(),
		})
		assert.ErrorIs(t, err, shortener.ErrShortURLTaken)

		got, err := s.FindByShortenURL(ctx, short)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, short, got.ShortenedURL)
	})

	t.Run("service round trip", func(t *testing.T) {
		s := newStore(t)
		svc := shortener.NewService(s, zap.NewNop(), shortener.WithAssigner(s))

		for _, strategy := range shortener.Strategies() {
			target := "https://" + uuid.NewString() + ".example.com/some/long/path"

			result, err := svc.Shorten(ctx, target, strategy)
			require.NoError(t, err)

			got, err := svc.Retrieve(ctx, result.ShortenURL)
			require.NoError(t, err, "strategy %s", strategy)
			assert.Equal(t, target, got.OriginalURL)
			assert.Equal(t, result.ID, got.ID)
		}
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(ctx))
	})
}

func unique(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
