package blobcleanup

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/solutions-catalog/internal/observability"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

// Inline deletes blobs in a background goroutine without a queue. It is
// used when redis is not configured; failures are logged and dropped.
type Inline struct {
	log     *logger.Logger
	store   Deleter
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewInline(log *logger.Logger, store Deleter) *Inline {
	return &Inline{
		log:     log.With("component", "InlineBlobCleaner", "store", store.Name()),
		store:   store,
		timeout: 30 * time.Second,
	}
}

func (c *Inline) Schedule(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		if err := c.store.Delete(delCtx, key); err != nil {
			observability.Current().IncBlobCleanup("inline", "error")
			c.log.Warn("Blob cleanup failed", "key", key, "error", err)
			return
		}
		observability.Current().IncBlobCleanup("inline", "deleted")
		c.log.Debug("Blob deleted", "key", key)
	}()
	return nil
}

// Wait blocks until every scheduled delete has finished.
func (c *Inline) Wait() { c.wg.Wait() }
