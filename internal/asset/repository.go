// Package asset stores uploaded files in object storage and tracks them in the assets table.
package asset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Asset describes one uploaded file.
type Asset struct {
	ID        int64     `json:"id"         example:"1"`
	Filename  string    `json:"filename"   example:"a.txt"`
	URL       string    `json:"url"        example:"https://my-bucket.s3.amazonaws.com/1700000000000-a.txt"`
	CreatedAt time.Time `json:"created_at" example:"2026-10-14T12:00:00Z"`
}

// ErrNotFound is returned when no asset has the requested id.
var ErrNotFound = errors.New("asset not found")

// DBTX is the subset of *pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository handles all asset database operations.
type Repository struct {
	db DBTX
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// Create inserts a new asset and returns the stored row.
func (r *Repository) Create(ctx context.Context, filename, url string) (*Asset, error) {
	a := &Asset{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO assets (filename, url)
		 VALUES ($1, $2)
		 RETURNING id, filename, url, created_at`,
		filename, url,
	).Scan(&a.ID, &a.Filename, &a.URL, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert asset: %w", err)
	}
	return a, nil
}

// List returns every asset, most recent first.
func (r *Repository) List(ctx context.Context) ([]Asset, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, filename, url, created_at
		 FROM assets
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	assets := make([]Asset, 0)
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.Filename, &a.URL, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, nil
}

// GetByID fetches an asset by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Asset, error) {
	a := &Asset{}
	err := r.db.QueryRow(ctx,
		`SELECT id, filename, url, created_at
		 FROM assets WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Filename, &a.URL, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get asset by id: %w", err)
	}
	return a, nil
}

// Delete removes the asset row. Deleting a row that is already gone is not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}
