package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/mukeshiit422/epemcell-backend/internal/storage"
)

// store is the persistence the service needs; *Repository satisfies it.
type store interface {
	Create(ctx context.Context, filename, url string) (*Asset, error)
	List(ctx context.Context) ([]Asset, error)
	GetByID(ctx context.Context, id int64) (*Asset, error)
	Delete(ctx context.Context, id int64) error
}

// Service orchestrates the object store and the assets table.
// Calls into the two stores are sequential and never compensated: a failure
// after the first remote write leaves the stores out of step.
type Service struct {
	repo    store
	objects storage.Storage
	now     func() time.Time
}

// NewService creates a new asset Service.
func NewService(repo store, objects storage.Storage) *Service {
	return &Service{repo: repo, objects: objects, now: time.Now}
}

// ObjectKey builds the object key for a file uploaded at t.
// Filenames are not sanitized; equal names in the same millisecond collide.
func ObjectKey(t time.Time, filename string) string {
	return strconv.FormatInt(t.UnixMilli(), 10) + "-" + filename
}

// Upload writes body to the object store and records the resulting URL.
// If the insert fails the object stays in the bucket.
func (s *Service) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*Asset, error) {
	key := ObjectKey(s.now(), filename)

	if err := s.objects.Upload(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("store object: %w", err)
	}

	a, err := s.repo.Create(ctx, filename, s.objects.PublicURL(key))
	if err != nil {
		log.Printf("asset: object %q orphaned after failed insert", key)
		return nil, fmt.Errorf("record asset: %w", err)
	}
	return a, nil
}

// List returns all assets, most recent first.
func (s *Service) List(ctx context.Context) ([]Asset, error) {
	return s.repo.List(ctx)
}

// Delete removes the object backing the asset, then the row itself.
func (s *Service) Delete(ctx context.Context, id int64) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	key := storage.KeyFromURL(a.URL)
	if err := s.objects.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Printf("asset: row %d kept after object %q was removed", id, key)
		return fmt.Errorf("delete row: %w", err)
	}
	return nil
}

// IsNotFound returns true when the error indicates an asset was not found.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
