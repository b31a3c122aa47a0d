package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

type BucketConfig struct {
	Bucket string
	// CDNDomain, when set, fronts every public URL.
	CDNDomain string
	// EmulatorHost points the client at a fake-gcs server.
	EmulatorHost string
	// PublicBaseURL overrides the host used in public URLs.
	PublicBaseURL string
	Credentials   string
	WriteTimeout  time.Duration
}

// ImageBucket stores catalog images in one GCS bucket.
type ImageBucket struct {
	log    *logger.Logger
	client *storage.Client
	cfg    BucketConfig
}

func NewImageBucket(ctx context.Context, log *logger.Logger, cfg BucketConfig) (*ImageBucket, error) {
	cfg.Bucket = strings.TrimSpace(cfg.Bucket)
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("missing env var IMAGE_GCS_BUCKET_NAME")
	}
	cfg.EmulatorHost = strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if cfg.PublicBaseURL != "" {
		if u, err := url.Parse(cfg.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid public base url %q; expected absolute URL like http://localhost:4443", cfg.PublicBaseURL)
		}
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 2 * time.Minute
	}

	var opts []option.ClientOption
	if cfg.EmulatorHost != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(ClientOptions(cfg.Credentials), option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	bucketLog := log.With("service", "ImageBucket", "bucket", cfg.Bucket)
	bucketLog.Info("Object storage initialized", "emulator_host", cfg.EmulatorHost, "cdn_domain", cfg.CDNDomain)
	return &ImageBucket{log: bucketLog, client: client, cfg: cfg}, nil
}

func (b *ImageBucket) Name() string { return "gcs" }

func (b *ImageBucket) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.WriteTimeout)
	defer cancel()

	w := b.client.Bucket(b.cfg.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return b.PublicURL(key), nil
}

// Delete removes key. A missing object is not an error.
func (b *ImageBucket) Delete(ctx context.Context, key string) error {
	err := b.client.Bucket(b.cfg.Bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q: %w", key, err)
	}
	return nil
}

func (b *ImageBucket) Close() error { return b.client.Close() }

func (b *ImageBucket) PublicURL(key string) string {
	return publicURL(b.cfg, key)
}

func publicURL(cfg BucketConfig, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", strings.Trim(cfg.CDNDomain, "/"), key)
	}
	if cfg.EmulatorHost != "" {
		base := cfg.PublicBaseURL
		if base == "" {
			base = cfg.EmulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(cfg.Bucket), url.PathEscape(key))
	}
	if cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", cfg.PublicBaseURL, cfg.Bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", cfg.Bucket, key)
}
