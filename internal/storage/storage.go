// Package storage defines the interface for object storage operations.
// The MinIO implementation works with any S3-compatible provider (AWS S3, MinIO).
package storage

import (
	"context"
	"io"
	"strings"
)

// Storage is the interface for writing and removing objects.
type Storage interface {
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key. A missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the URL persisted for a given key.
	PublicURL(key string) string
}

// KeyFromURL recovers an object key from a URL built by PublicURL: everything
// after the final "/".
func KeyFromURL(url string) string {
	return url[strings.LastIndex(url, "/")+1:]
}
