package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/url-shorten/internal/shortener"
)

const (
	uniqueViolation = "23505"

	// shortURLConstraint is the name Postgres gives the UNIQUE on shortened_url.
	shortURLConstraint = "urls_shortened_url_key"
)

// PostgresSchema creates the urls table. The BIGSERIAL id is the identifier the
// service encodes.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS urls (
	id            BIGSERIAL PRIMARY KEY,
	original_url  TEXT        NOT NULL,
	shortened_url TEXT        UNIQUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresStore is a PostgreSQL implementation of Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the schema if it does not exist yet.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("migrate urls: %w", err)
	}

	return nil
}

func (p *PostgresStore) Save(ctx context.Context, url *shortener.URL) (*shortener.URL, error) {
	if url.ID != 0 {
		if err := p.upsert(ctx, url); err != nil {
			return nil, err
		}

		return url, nil
	}

	query := `
		INSERT INTO urls (original_url, shortened_url, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := p.pool.QueryRow(ctx, query,
		url.OriginalURL,
		nullableString(url.ShortenedURL),
		url.CreatedAt,
	).Scan(&url.ID)
	if err != nil {
		return nil, translatePgError(err)
	}

	return url, nil
}

// upsert saves url under its own identifier and moves the id sequence past it,
// so later inserts never reuse the identifier.
func (p *PostgresStore) upsert(ctx context.Context, url *shortener.URL) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var stored *string

	err = tx.QueryRow(ctx, `SELECT shortened_url FROM urls WHERE id = $1 FOR UPDATE`, url.ID).Scan(&stored)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx, `
			INSERT INTO urls (id, original_url, shortened_url, created_at)
			VALUES ($1, $2, $3, $4)
		`, url.ID, url.OriginalURL, nullableString(url.ShortenedURL), url.CreatedAt)
	case err != nil:
		return err
	default:
		if stored != nil {
			if err := keepShortURL(url, *stored); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `
			UPDATE urls
			SET original_url = $2, shortened_url = $3, created_at = $4
			WHERE id = $1
		`, url.ID, url.OriginalURL, nullableString(url.ShortenedURL), url.CreatedAt)
	}

	if err != nil {
		return translatePgError(err)
	}

	_, err = tx.Exec(ctx, `SELECT setval('urls_id_seq', GREATEST($1::bigint, (SELECT last_value FROM urls_id_seq)))`, url.ID)
	if err != nil {
		return fmt.Errorf("advance id sequence: %w", err)
	}

	return tx.Commit(ctx)
}

func (p *PostgresStore) FindByShortenURL(ctx context.Context, shortURL string) (*shortener.URL, error) {
	query := `
		SELECT id, original_url, shortened_url, created_at
		FROM urls
		WHERE shortened_url = $1
	`

	var (
		url       shortener.URL
		shortened *string
	)

	err := p.pool.QueryRow(ctx, query, shortURL).Scan(
		&url.ID,
		&url.OriginalURL,
		&shortened,
		&url.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	if shortened != nil {
		url.ShortenedURL = *shortened
	}

	return &url, nil
}

// AssignShortURL sets the short URL once; repeating the same value is a no-op.
func (p *PostgresStore) AssignShortURL(ctx context.Context, url *shortener.URL) error {
	query := `
		UPDATE urls
		SET shortened_url = $2
		WHERE id = $1 AND (shortened_url IS NULL OR shortened_url = $2)
	`

	tag, err := p.pool.Exec(ctx, query, url.ID, url.ShortenedURL)
	if err != nil {
		return translatePgError(err)
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := p.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM urls WHERE id = $1)`, url.ID).Scan(&exists); err != nil {
		return err
	}

	if !exists {
		return shortener.ErrNotFound
	}

	return shortener.ErrShortURLTaken
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *PostgresStore) Shutdown() error {
	p.pool.Close()

	return nil
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == shortURLConstraint {
		return shortener.ErrShortURLTaken
	}

	return err
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

var _ Store = (*PostgresStore)(nil)
