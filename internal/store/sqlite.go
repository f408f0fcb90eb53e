package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/serroba/url-shorten/internal/shortener"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// urlRow is the GORM model behind SQLiteStore.
type urlRow struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"`
	OriginalURL  string  `gorm:"not null"`
	ShortenedURL *string `gorm:"uniqueIndex"`
	CreatedAt    time.Time
}

func (urlRow) TableName() string {
	return "urls"
}

func (r urlRow) toURL() *shortener.URL {
	url := &shortener.URL{
		ID:          r.ID,
		OriginalURL: r.OriginalURL,
		CreatedAt:   r.CreatedAt,
	}

	if r.ShortenedURL != nil {
		url.ShortenedURL = *r.ShortenedURL
	}

	return url
}

func rowFromURL(url *shortener.URL) urlRow {
	row := urlRow{
		ID:          url.ID,
		OriginalURL: url.OriginalURL,
		CreatedAt:   url.CreatedAt,
	}

	if url.ShortenedURL != "" {
		short := url.ShortenedURL
		row.ShortenedURL = &short
	}

	return row
}

// OpenSQLite opens (or creates) the database file at path and migrates it.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database with path %s: %w", path, err)
	}

	if err := db.AutoMigrate(&urlRow{}); err != nil {
		return nil, fmt.Errorf("migrating sqlite: %w", err)
	}

	return db, nil
}

// SQLiteStore is a GORM/SQLite implementation of Store.
type SQLiteStore struct {
	db *gorm.DB
}

func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Save(ctx context.Context, url *shortener.URL) (*shortener.URL, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if url.ID == 0 {
			row := rowFromURL(url)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}

			url.ID = row.ID

			return nil
		}

		var stored urlRow

		err := tx.First(&stored, url.ID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err == nil && stored.ShortenedURL != nil {
			if err := keepShortURL(url, *stored.ShortenedURL); err != nil {
				return err
			}
		}

		row := rowFromURL(url)

		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, errors.Wrapf(translateGormError(err), "failed to save url %s", url.OriginalURL)
	}

	return url, nil
}

func (s *SQLiteStore) FindByShortenURL(ctx context.Context, shortURL string) (*shortener.URL, error) {
	var row urlRow
	if err := s.db.WithContext(ctx).Where("shortened_url = ?", shortURL).First(&row).Error; err != nil {
		return nil, translateGormError(err)
	}

	return row.toURL(), nil
}

func (s *SQLiteStore) AssignShortURL(ctx context.Context, url *shortener.URL) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row urlRow
		if err := tx.First(&row, url.ID).Error; err != nil {
			return translateGormError(err)
		}

		if row.ShortenedURL != nil {
			if *row.ShortenedURL == url.ShortenedURL {
				return nil
			}

			return shortener.ErrShortURLTaken
		}

		err := tx.Model(&row).Update("shortened_url", url.ShortenedURL).Error

		return translateGormError(err)
	})
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Shutdown closes the underlying database handle.
func (s *SQLiteStore) Shutdown() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shortener.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shortener.ErrShortURLTaken
	default:
		return err
	}
}

var _ Store = (*SQLiteStore)(nil)
