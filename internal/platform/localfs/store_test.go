package localfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(logger.Nop(), t.TempDir(), "uploads/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestPutAndDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	url, err := s.Put(ctx, "solutions/abc.png", "image/png", strings.NewReader("png-bytes"), 9)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/uploads/solutions/abc.png" {
		t.Fatalf("url: %q", url)
	}
	got, err := os.ReadFile(filepath.Join(s.Root(), "solutions", "abc.png"))
	if err != nil || string(got) != "png-bytes" {
		t.Fatalf("stored file: %q err=%v", got, err)
	}

	if err := s.Delete(ctx, "solutions/abc.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "solutions", "abc.png")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file should be gone, stat err=%v", err)
	}
	if err := s.Delete(ctx, "solutions/abc.png"); err != nil {
		t.Fatalf("deleting a missing file: %v", err)
	}
}

func TestRejectsEscapingKeys(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for _, key := range []string{"", "../evil.png", "solutions/../../evil.png", `solutions\evil.png`, "/", "a/./b.png"} {
		if _, err := s.Put(ctx, key, "image/png", strings.NewReader("x"), 1); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("Put(%q): expected ErrInvalidKey, got %v", key, err)
		}
		if err := s.Delete(ctx, key); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("Delete(%q): expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestDefaultPublicPath(t *testing.T) {
	s, err := New(logger.Nop(), t.TempDir(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.PublicPath() != "/uploads" || s.Name() != "local" {
		t.Fatalf("public path=%q name=%q", s.PublicPath(), s.Name())
	}
}
