package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/solutions-catalog/internal/platform/gcp"
	"github.com/yungbote/solutions-catalog/internal/platform/localfs"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
	"github.com/yungbote/solutions-catalog/internal/platform/s3"
	"github.com/yungbote/solutions-catalog/internal/services"
)

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode   StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingConfig StorageProviderBootstrapErrorCode = "missing_config"
	StorageProviderBootstrapErrorConnectFailed StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code  StorageProviderBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "image storage bootstrap failed"
	}
	return fmt.Sprintf("image storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ImageStorage is the selected backend plus what the router needs to serve
// local files.
type ImageStorage struct {
	Store      services.ImageStore
	StaticDir  string
	StaticPath string
	close      func() error
}

func (s ImageStorage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

var (
	newGCSBucket = func(ctx context.Context, log *logger.Logger, cfg gcp.BucketConfig) (services.ImageStore, func() error, error) {
		b, err := gcp.NewImageBucket(ctx, log, cfg)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	}
	newS3Bucket = func(ctx context.Context, log *logger.Logger, cfg s3.Config) (services.ImageStore, error) {
		b, err := s3.NewImageBucket(log, cfg)
		if err != nil {
			return nil, err
		}
		if err := b.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return b, nil
	}
)

func resolveImageStorage(ctx context.Context, log *logger.Logger, cfg Config) (ImageStorage, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.StorageMode))
	fail := func(code StorageProviderBootstrapErrorCode, cause error) (ImageStorage, error) {
		err := &StorageProviderBootstrapError{Code: code, Mode: mode, Cause: cause}
		log.Error("Image storage selection failed", "mode", mode, "error_code", code, "error", cause)
		return ImageStorage{}, err
	}

	switch mode {
	case "", StorageModeLocal:
		store, err := localfs.New(log, cfg.UploadDir, cfg.UploadPublicPath)
		if err != nil {
			return fail(StorageProviderBootstrapErrorConnectFailed, err)
		}
		log.Info("Image storage selected", "mode", StorageModeLocal, "root", store.Root())
		return ImageStorage{Store: store, StaticDir: store.Root(), StaticPath: store.PublicPath()}, nil

	case StorageModeGCS:
		if strings.TrimSpace(cfg.GCSBucket) == "" {
			return fail(StorageProviderBootstrapErrorMissingConfig, fmt.Errorf("IMAGE_GCS_BUCKET_NAME is required"))
		}
		store, closeFn, err := newGCSBucket(ctx, log, gcp.BucketConfig{
			Bucket:        cfg.GCSBucket,
			CDNDomain:     cfg.GCSCDNDomain,
			EmulatorHost:  cfg.GCSEmulatorHost,
			PublicBaseURL: cfg.GCSPublicBaseURL,
			Credentials:   cfg.GCSCredentials,
		})
		if err != nil {
			return fail(StorageProviderBootstrapErrorConnectFailed, err)
		}
		log.Info("Image storage selected", "mode", StorageModeGCS, "bucket", cfg.GCSBucket)
		return ImageStorage{Store: store, close: closeFn}, nil

	case StorageModeS3:
		if strings.TrimSpace(cfg.S3Endpoint) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return fail(StorageProviderBootstrapErrorMissingConfig, fmt.Errorf("S3_ENDPOINT and S3_BUCKET are required"))
		}
		store, err := newS3Bucket(ctx, log, s3.Config{
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			UseSSL:        cfg.S3UseSSL,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return fail(StorageProviderBootstrapErrorConnectFailed, err)
		}
		log.Info("Image storage selected", "mode", StorageModeS3, "bucket", cfg.S3Bucket)
		return ImageStorage{Store: store}, nil
	}

	return fail(StorageProviderBootstrapErrorInvalidMode, fmt.Errorf("unsupported STORAGE_MODE %q", mode))
}
