package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/yungbote/solutions-catalog/internal/platform/gcp"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
	"github.com/yungbote/solutions-catalog/internal/platform/s3"
	"github.com/yungbote/solutions-catalog/internal/services"
)

type stubStore struct{ name string }

func (s stubStore) Name() string { return s.name }
func (s stubStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	return "stub://" + key, nil
}
func (s stubStore) Delete(ctx context.Context, key string) error { return nil }

func requireBootstrapCode(t *testing.T, err error, want StorageProviderBootstrapErrorCode) {
	t.Helper()
	var bootErr *StorageProviderBootstrapError
	if !errors.As(err, &bootErr) {
		t.Fatalf("expected StorageProviderBootstrapError, got %T (%v)", err, err)
	}
	if bootErr.Code != want {
		t.Fatalf("unexpected code: got=%q want=%q", bootErr.Code, want)
	}
}

func TestResolveImageStorageLocal(t *testing.T) {
	dir := t.TempDir()
	got, err := resolveImageStorage(context.Background(), logger.Nop(), Config{StorageMode: "local", UploadDir: dir, UploadPublicPath: "/files"})
	if err != nil {
		t.Fatalf("resolveImageStorage: %v", err)
	}
	if got.Store.Name() != "local" || got.StaticPath != "/files" || got.StaticDir == "" {
		t.Fatalf("unexpected storage: %+v", got)
	}
}

func TestResolveImageStorageErrors(t *testing.T) {
	ctx := context.Background()
	_, err := resolveImageStorage(ctx, logger.Nop(), Config{StorageMode: "ftp"})
	requireBootstrapCode(t, err, StorageProviderBootstrapErrorInvalidMode)

	_, err = resolveImageStorage(ctx, logger.Nop(), Config{StorageMode: "gcs"})
	requireBootstrapCode(t, err, StorageProviderBootstrapErrorMissingConfig)

	_, err = resolveImageStorage(ctx, logger.Nop(), Config{StorageMode: "s3", S3Endpoint: "localhost:9000"})
	requireBootstrapCode(t, err, StorageProviderBootstrapErrorMissingConfig)
}

func TestResolveImageStorageCloudModes(t *testing.T) {
	origGCS, origS3 := newGCSBucket, newS3Bucket
	t.Cleanup(func() { newGCSBucket, newS3Bucket = origGCS, origS3 })

	var gotGCS gcp.BucketConfig
	newGCSBucket = func(ctx context.Context, log *logger.Logger, cfg gcp.BucketConfig) (services.ImageStore, func() error, error) {
		gotGCS = cfg
		return stubStore{name: "gcs"}, nil, nil
	}
	newS3Bucket = func(ctx context.Context, log *logger.Logger, cfg s3.Config) (services.ImageStore, error) {
		return nil, errors.New("connection refused")
	}

	got, err := resolveImageStorage(context.Background(), logger.Nop(), Config{StorageMode: "GCS", GCSBucket: "imgs", GCSCDNDomain: "cdn.example.com"})
	if err != nil {
		t.Fatalf("gcs: %v", err)
	}
	if got.Store.Name() != "gcs" || gotGCS.Bucket != "imgs" || gotGCS.CDNDomain != "cdn.example.com" || got.StaticDir != "" {
		t.Fatalf("gcs storage: %+v cfg=%+v", got, gotGCS)
	}
	if err := got.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err = resolveImageStorage(context.Background(), logger.Nop(), Config{StorageMode: "s3", S3Endpoint: "minio:9000", S3Bucket: "imgs"})
	requireBootstrapCode(t, err, StorageProviderBootstrapErrorConnectFailed)
}
