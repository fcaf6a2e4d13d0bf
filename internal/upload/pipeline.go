// Package upload validates recorded audio files and moves them into blob
// storage.
package upload

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"context"

	"echodrop/internal/audio"
	"echodrop/internal/models"
	"echodrop/internal/observability"
	"echodrop/internal/storage"
)

// Kind distinguishes post audio from comment audio. It prefixes the
// storage key.
type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Pipeline validates a local audio file and uploads it. All validation
// happens before the storage backend is touched.
type Pipeline struct {
	store    storage.BlobStore
	maxBytes int64
	now      func() time.Time
	log      *observability.AudioLogger
}

// NewPipeline creates a Pipeline over the given store with a size ceiling
// in bytes.
func NewPipeline(store storage.BlobStore, maxBytes int64) *Pipeline {
	return &Pipeline{
		store:    store,
		maxBytes: maxBytes,
		now:      time.Now,
		log:      observability.NewAudioLogger("uploader"),
	}
}

// Key builds the storage key for an upload: {kind}s/{userID}/{millis}.{ext}.
func Key(kind Kind, userID string, millis int64, ext string) string {
	return fmt.Sprintf("%ss/%s/%d.%s", kind, userID, millis, ext)
}

// Upload validates the file at path and stores it under a key derived
// from kind, userID, and the current time. Returns the public URL.
func (p *Pipeline) Upload(ctx context.Context, kind Kind, userID, path string) (string, error) {
	if userID == "" {
		return "", models.NewNotAuthenticatedError("sign in before uploading")
	}
	if kind != KindPost && kind != KindComment {
		return "", models.NewValidationError(fmt.Sprintf("unknown upload kind %q", kind))
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			observability.UploadsTotal.WithLabelValues(string(kind), "rejected").Inc()
			return "", models.NewFileNotFoundError(path)
		}
		return "", models.NewUploadError(err)
	}
	if info.Size() > p.maxBytes {
		observability.UploadsTotal.WithLabelValues(string(kind), "rejected").Inc()
		return "", models.NewFileTooLargeError(p.maxBytes)
	}

	ext := audio.Ext(path)
	if !audio.AllowedExt(ext) {
		observability.UploadsTotal.WithLabelValues(string(kind), "rejected").Inc()
		return "", models.NewUnsupportedFormatError(ext)
	}

	url, err := p.put(ctx, kind, userID, path, ext, info.Size())
	if err != nil {
		observability.UploadsTotal.WithLabelValues(string(kind), "failed").Inc()
		p.log.LogError(ctx, err, "upload")
		return "", err
	}

	observability.UploadsTotal.WithLabelValues(string(kind), "accepted").Inc()
	observability.UploadBytes.Observe(float64(info.Size()))
	p.log.LogEvent(ctx, "upload", map[string]interface{}{
		"kind": string(kind),
		"url":  url,
		"size": info.Size(),
	})
	return url, nil
}

// put streams the file into storage. A key collision (two uploads in the
// same millisecond) retries once with the next millisecond.
func (p *Pipeline) put(ctx context.Context, kind Kind, userID, path, ext string, size int64) (string, error) {
	millis := p.now().UnixMilli()
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.Open(path)
		if err != nil {
			return "", models.NewUploadError(err)
		}

		key := Key(kind, userID, millis+int64(attempt), ext)
		url, err := p.store.Put(ctx, key, audio.ContentType(ext), f, size)
		_ = f.Close()
		if err == nil {
			return url, nil
		}
		if !errors.Is(err, storage.ErrObjectExists) {
			return "", models.NewUploadError(err)
		}
	}
	return "", models.NewUploadError(storage.ErrObjectExists)
}
