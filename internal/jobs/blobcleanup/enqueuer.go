package blobcleanup

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/yungbote/solutions-catalog/internal/observability"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

// Enqueuer schedules cleanup through the asynq queue in redis.
type Enqueuer struct {
	log    *logger.Logger
	client *asynq.Client
}

func NewEnqueuer(log *logger.Logger, redis asynq.RedisConnOpt) *Enqueuer {
	return &Enqueuer{
		log:    log.With("component", "BlobCleanupEnqueuer"),
		client: asynq.NewClient(redis),
	}
}

func (e *Enqueuer) Schedule(ctx context.Context, key string) error {
	task, err := NewTask(key)
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, task, asynq.Queue(defaultQueue))
	if err != nil {
		observability.Current().IncBlobCleanup("queued", "enqueue_error")
		return fmt.Errorf("enqueue blob cleanup: %w", err)
	}
	observability.Current().IncBlobCleanup("queued", "enqueued")
	e.log.Debug("Blob cleanup enqueued", "key", key, "task_id", info.ID)
	return nil
}

func (e *Enqueuer) Close() error { return e.client.Close() }
