package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/yungbote/solutions-catalog/internal/domain/catalog"
	"github.com/yungbote/solutions-catalog/internal/observability"
	"github.com/yungbote/solutions-catalog/internal/platform/apierr"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

const uploadKeyPrefix = "solutions/"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UploadService interface {
	// StoreImage sniffs, size-checks and persists one uploaded image.
	StoreImage(ctx context.Context, fh *multipart.FileHeader) (*catalog.FileDescriptor, error)
	MaxBytes() int64
}

type uploadService struct {
	log      *logger.Logger
	store    ImageStore
	maxBytes int64
}

func NewUploadService(baseLog *logger.Logger, store ImageStore, maxBytes int64) UploadService {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &uploadService{
		log:      baseLog.With("service", "UploadService", "store", store.Name()),
		store:    store,
		maxBytes: maxBytes,
	}
}

func (s *uploadService) MaxBytes() int64 { return s.maxBytes }

func (s *uploadService) StoreImage(ctx context.Context, fh *multipart.FileHeader) (desc *catalog.FileDescriptor, err error) {
	defer func() {
		status := "ok"
		if err != nil {
			status = apierr.CodeOf(err)
		}
		var size int64
		if desc != nil {
			size = desc.Size
		}
		observability.Current().ObserveUpload(s.store.Name(), status, size)
	}()

	if fh == nil {
		return nil, apierr.Validation("invalid_file", "image file is required")
	}
	if fh.Size > s.maxBytes {
		return nil, apierr.TooLarge("image is %s; the limit is %s",
			humanize.IBytes(uint64(fh.Size)), humanize.IBytes(uint64(s.maxBytes)))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apierr.Validation("invalid_file", "could not read uploaded file")
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apierr.Validation("invalid_file", "could not read uploaded file")
	}
	head = head[:n]
	if n == 0 {
		return nil, apierr.Validation("invalid_file", "uploaded file is empty")
	}
	contentType := http.DetectContentType(head)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, apierr.Validation("invalid_file_type", "only jpeg, png, gif and webp images are accepted")
	}

	key := uploadKeyPrefix + uuid.NewString() + ext
	body := io.MultiReader(bytes.NewReader(head), f)
	url, err := s.store.Put(context.WithoutCancel(ctx), key, contentType, body, fh.Size)
	if err != nil {
		return nil, apierr.Internal("upload_failed", fmt.Errorf("store image: %w", err))
	}

	s.log.Info("Image stored", "key", key, "size", humanize.IBytes(uint64(fh.Size)))
	return &catalog.FileDescriptor{
		URL:  url,
		Name: cleanFileName(fh.Filename, ext),
		Size: fh.Size,
		Key:  key,
	}, nil
}

// cleanFileName keeps only the base name of what the client sent.
func cleanFileName(name, ext string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, `\`, "/")))
	if name == "" || name == "." || name == "/" {
		return "image" + ext
	}
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}
