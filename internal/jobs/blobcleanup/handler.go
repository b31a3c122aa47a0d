package blobcleanup

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/yungbote/solutions-catalog/internal/observability"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

type Handler struct {
	log   *logger.Logger
	store Deleter
}

func NewHandler(log *logger.Logger, store Deleter) *Handler {
	return &Handler{
		log:   log.With("component", "BlobCleanupHandler", "store", store.Name()),
		store: store,
	}
}

// ProcessTask implements asynq.Handler.
func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	p, err := decode(t)
	if err != nil {
		observability.Current().IncBlobCleanup("queued", "bad_payload")
		// retrying a malformed payload cannot succeed
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err := h.store.Delete(ctx, p.Key); err != nil {
		observability.Current().IncBlobCleanup("queued", "error")
		h.log.Warn("Blob cleanup failed", "key", p.Key, "error", err)
		return err
	}
	observability.Current().IncBlobCleanup("queued", "deleted")
	h.log.Info("Blob deleted", "key", p.Key)
	return nil
}

// Mux routes cleanup tasks to h.
func (h *Handler) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TaskType, h)
	return mux
}
