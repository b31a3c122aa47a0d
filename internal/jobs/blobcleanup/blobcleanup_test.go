package blobcleanup

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hibiken/asynq"

	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

type fakeStore struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeStore) Name() string { return "fake" }

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func TestNewTask(t *testing.T) {
	task, err := NewTask("  solutions/a.png ")
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if task.Type() != TaskType {
		t.Fatalf("type: %q", task.Type())
	}
	p, err := decode(task)
	if err != nil || p.Key != "solutions/a.png" {
		t.Fatalf("decode: %+v err=%v", p, err)
	}
	if _, err := NewTask(" "); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestHandlerDeletes(t *testing.T) {
	store := &fakeStore{}
	h := NewHandler(logger.Nop(), store)
	task, _ := NewTask("solutions/a.png")
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "solutions/a.png" {
		t.Fatalf("deleted: %v", store.deleted)
	}
}

func TestHandlerErrors(t *testing.T) {
	store := &fakeStore{err: errors.New("boom")}
	h := NewHandler(logger.Nop(), store)

	task, _ := NewTask("solutions/a.png")
	if err := h.ProcessTask(context.Background(), task); err == nil || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("store failure should be retried, got %v", err)
	}

	bad := asynq.NewTask(TaskType, []byte(`{"key":""}`))
	if err := h.ProcessTask(context.Background(), bad); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload should skip retry, got %v", err)
	}
}

func TestInline(t *testing.T) {
	store := &fakeStore{}
	c := NewInline(logger.Nop(), store)
	ctx, cancel := context.WithCancel(context.Background())
	if err := c.Schedule(ctx, "solutions/b.png"); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	cancel()
	c.Wait()
	if len(store.deleted) != 1 || store.deleted[0] != "solutions/b.png" {
		t.Fatalf("deleted: %v", store.deleted)
	}
	if err := c.Schedule(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
