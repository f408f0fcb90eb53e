package shortener_test

import (
	"context"
	"errors"

	"github.com/serroba/url-shorten/internal/shortener"
)

const fixedID int64 = 123456789

var errMock = errors.New("mock error")

// spyRepository records every call and answers with scripted results.
// Saved records are kept by pointer, so later mutations by the service are visible.
type spyRepository struct {
	saved   []*shortener.URL
	saveErr error
	nextID  func() int64

	findCalls  []string
	findResult *shortener.URL
	findErr    error
}

func newSpyRepository() *spyRepository {
	return &spyRepository{
		nextID: func() int64 { return fixedID },
	}
}

func newSequenceRepository() *spyRepository {
	var id int64

	return &spyRepository{
		nextID: func() int64 {
			id++

			return id
		},
	}
}

func (s *spyRepository) Save(_ context.Context, url *shortener.URL) (*shortener.URL, error) {
	s.saved = append(s.saved, url)

	if s.saveErr != nil {
		return nil, s.saveErr
	}

	url.ID = s.nextID()

	return url, nil
}

func (s *spyRepository) FindByShortenURL(_ context.Context, shortURL string) (*shortener.URL, error) {
	s.findCalls = append(s.findCalls, shortURL)

	if s.findErr != nil {
		return nil, s.findErr
	}

	if s.findResult == nil {
		return nil, shortener.ErrNotFound
	}

	return s.findResult, nil
}

type spyAssigner struct {
	assigned []shortener.URL
	err      error
}

func (a *spyAssigner) AssignShortURL(_ context.Context, url *shortener.URL) error {
	a.assigned = append(a.assigned, *url)

	return a.err
}
