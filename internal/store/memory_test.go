package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/serroba/url-shorten/internal/shortener"
	"github.com/serroba/url-shorten/internal/store"
	"github.com/serroba/url-shorten/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(_ *testing.T) store.Store {
		return store.NewMemoryStore()
	})
}

func TestMemoryStore_Isolation(t *testing.T) {
	t.Run("later caller mutations do not leak into the store", func(t *testing.T) {
		s := store.NewMemoryStore()
		ctx := context.Background()

		record, err := s.Save(ctx, &shortener.URL{OriginalURL: "https://example.com"})
		require.NoError(t, err)

		record.ShortenedURL = "example.com/1"

		_, err = s.FindByShortenURL(ctx, "example.com/1")
		require.ErrorIs(t, err, shortener.ErrNotFound)

		require.NoError(t, s.AssignShortURL(ctx, record))

		got, err := s.FindByShortenURL(ctx, "example.com/1")
		require.NoError(t, err)
		assert.NotSame(t, record, got)
	})

	t.Run("identifiers start at one", func(t *testing.T) {
		s := store.NewMemoryStore()

		record, err := s.Save(context.Background(), &shortener.URL{OriginalURL: "https://example.com"})

		require.NoError(t, err)
		assert.Equal(t, int64(1), record.ID)
	})
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	const workers, perWorker = 8, 100

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]struct{}, workers*perWorker)
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < perWorker; j++ {
				record, err := s.Save(ctx, &shortener.URL{OriginalURL: "https://example.com"})
				if !assert.NoError(t, err) {
					return
				}

				mu.Lock()
				ids[record.ID] = struct{}{}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Len(t, ids, workers*perWorker)
}
