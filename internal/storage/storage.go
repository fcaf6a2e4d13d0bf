// Package storage provides blob storage backends for audio files.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectExists is returned by Put when the key is already taken.
// Audio objects are immutable: uploads create, never replace.
var ErrObjectExists = errors.New("storage: object already exists")

// BlobStore stores immutable audio blobs under caller-chosen keys.
type BlobStore interface {
	// Put stores the blob and returns its public URL. Fails with
	// ErrObjectExists when the key is already present.
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)

	// Get opens the blob for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for a key without touching the backend.
	URL(key string) string
}
