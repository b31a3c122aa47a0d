package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// PublicBaseURL replaces the endpoint in public object URLs, e.g. a CDN.
	PublicBaseURL string
}

// ImageBucket stores catalog images in a MinIO or S3 compatible bucket.
type ImageBucket struct {
	log    *logger.Logger
	client *minio.Client
	cfg    Config
}

func NewImageBucket(log *logger.Logger, cfg Config) (*ImageBucket, error) {
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.Bucket = strings.TrimSpace(cfg.Bucket)
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_ENDPOINT and S3_BUCKET are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &ImageBucket{
		log:    log.With("service", "S3ImageBucket", "bucket", cfg.Bucket),
		client: client,
		cfg:    cfg,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (b *ImageBucket) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", b.cfg.Bucket, err)
	}
	if exists {
		return nil
	}
	if err := b.client.MakeBucket(ctx, b.cfg.Bucket, minio.MakeBucketOptions{Region: b.cfg.Region}); err != nil {
		return fmt.Errorf("make bucket %s: %w", b.cfg.Bucket, err)
	}
	b.log.Info("Bucket created")
	return nil
}

func (b *ImageBucket) Name() string { return "s3" }

func (b *ImageBucket) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	opts := minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	}
	if _, err := b.client.PutObject(ctx, b.cfg.Bucket, key, r, size, opts); err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	return b.PublicURL(key), nil
}

// Delete removes key. S3 treats deleting a missing object as success.
func (b *ImageBucket) Delete(ctx context.Context, key string) error {
	if err := b.client.RemoveObject(ctx, b.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (b *ImageBucket) PublicURL(key string) string {
	return publicURL(b.cfg, key)
}

func publicURL(cfg Config, key string) string {
	key = strings.TrimLeft(key, "/")
	if base := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"); base != "" {
		return base + "/" + key
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: cfg.Endpoint, Path: "/" + cfg.Bucket + "/" + key}
	return u.String()
}
