package store

import (
	"context"
	"sync"

	"github.com/serroba/url-shorten/internal/shortener"
)

// MemoryStore keeps records in process memory. It stores copies, so callers may
// keep mutating the records they pass in.
type MemoryStore struct {
	mu      sync.RWMutex
	lastID  int64
	byID    map[int64]shortener.URL
	byShort map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[int64]shortener.URL),
		byShort: make(map[string]int64),
	}
}

func (m *MemoryStore) Save(_ context.Context, url *shortener.URL) (*shortener.URL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if previous, ok := m.byID[url.ID]; ok && url.ID != 0 {
		if err := keepShortURL(url, previous.ShortenedURL); err != nil {
			return nil, err
		}
	}

	if url.ShortenedURL != "" {
		if owner, ok := m.byShort[url.ShortenedURL]; ok && owner != url.ID {
			return nil, shortener.ErrShortURLTaken
		}
	}

	if url.ID == 0 {
		m.lastID++
		url.ID = m.lastID
	} else if url.ID > m.lastID {
		m.lastID = url.ID
	}

	m.byID[url.ID] = *url

	if url.ShortenedURL != "" {
		m.byShort[url.ShortenedURL] = url.ID
	}

	return url, nil
}

func (m *MemoryStore) FindByShortenURL(_ context.Context, shortURL string) (*shortener.URL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byShort[shortURL]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	record := m.byID[id]

	return &record, nil
}

func (m *MemoryStore) AssignShortURL(_ context.Context, url *shortener.URL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[url.ID]
	if !ok {
		return shortener.ErrNotFound
	}

	if record.ShortenedURL == url.ShortenedURL {
		return nil
	}

	if record.ShortenedURL != "" {
		return shortener.ErrShortURLTaken
	}

	if _, taken := m.byShort[url.ShortenedURL]; taken {
		return shortener.ErrShortURLTaken
	}

	record.ShortenedURL = url.ShortenedURL
	m.byID[url.ID] = record
	m.byShort[url.ShortenedURL] = url.ID

	return nil
}

func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
