package services

import (
	"context"
	"io"
	"time"
)

// Cache is a JSON value cache. Misses are (false, nil).
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// ImageStore persists uploaded image bytes under a key and serves them at
// the returned public URL.
type ImageStore interface {
	Name() string
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// BlobCleaner schedules removal of blobs no entry references anymore.
type BlobCleaner interface {
	Schedule(ctx context.Context, key string) error
}
