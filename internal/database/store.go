// Package database mirrors extracted product records to Postgres. The
// store is optional; the CSV file remains the primary artifact.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maltedev/shopify-catalog-scraper/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the products table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			id           TEXT PRIMARY KEY,
			url          TEXT UNIQUE NOT NULL,
			name         TEXT NOT NULL DEFAULT '',
			sku          TEXT NOT NULL DEFAULT '',
			price        TEXT NOT NULL DEFAULT '',
			availability TEXT NOT NULL DEFAULT '',
			run_id       TEXT NOT NULL,
			scraped_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

// SaveBatch upserts one batch of extracted records, keyed by page URL.
func (s *Store) SaveBatch(ctx context.Context, runID string, results []models.ScrapeResult) error {
	if len(results) == 0 {
		return nil
	}

	query := `
		INSERT INTO products (id, url, name, sku, price, availability, run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name,
			sku = EXCLUDED.sku,
			price = EXCLUDED.price,
			availability = EXCLUDED.availability,
			run_id = EXCLUDED.run_id,
			updated_at = CURRENT_TIMESTAMP`

	for _, result := range results {
		rec := result.Record
		_, err := s.pool.Exec(ctx, query,
			uuid.NewString(), result.URL, rec.Name, rec.SKU, rec.Price, rec.Availability, runID,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", result.URL, err)
		}
	}

	return nil
}
