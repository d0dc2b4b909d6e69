// Package storage writes exported menus to a local directory or an S3
// bucket.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no object exists under key.
var ErrNotFound = errors.New("object not found")

// ObjectStore saves and loads opaque blobs by key.
type ObjectStore interface {
	// Put stores data under key and returns a locator for it.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}
