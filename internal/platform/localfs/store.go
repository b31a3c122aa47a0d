package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

var ErrInvalidKey = errors.New("localfs: invalid object key")

// Store keeps images on local disk and serves them under a public path.
type Store struct {
	log        *logger.Logger
	root       string
	publicPath string
}

func New(log *logger.Logger, dir, publicPath string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "./uploads"
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	publicPath = "/" + strings.Trim(strings.TrimSpace(publicPath), "/")
	if publicPath == "/" {
		publicPath = "/uploads"
	}
	return &Store{
		log:        log.With("service", "LocalImageStore", "root", root),
		root:       root,
		publicPath: publicPath,
	}, nil
}

func (s *Store) Name() string { return "local" }

// Root is the directory the router serves files from.
func (s *Store) Root() string { return s.root }

func (s *Store) PublicPath() string { return s.publicPath }

func (s *Store) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	full, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close object: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", fmt.Errorf("commit object: %w", err)
	}
	return s.URL(key), nil
}

// Delete removes key. A missing file is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (s *Store) URL(key string) string {
	return path.Join(s.publicPath, strings.TrimLeft(key, "/"))
}

// resolve maps key to a path under root and rejects anything that escapes it.
func (s *Store) resolve(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	clean := path.Clean("/" + key)
	if clean == "/" || clean != "/"+strings.TrimLeft(key, "/") {
		return "", ErrInvalidKey
	}
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidKey
	}
	return full, nil
}
