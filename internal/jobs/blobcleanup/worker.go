package blobcleanup

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

// Worker consumes cleanup tasks until ctx is cancelled.
type Worker struct {
	log    *logger.Logger
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(log *logger.Logger, redis asynq.RedisConnOpt, store Deleter, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = 2
	}
	wlog := log.With("component", "BlobCleanupWorker")
	server := asynq.NewServer(redis, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{defaultQueue: 1},
		Logger:      asynqLogger{wlog},
	})
	return &Worker{log: wlog, server: server, mux: NewHandler(log, store).Mux()}
}

// Start runs the server in the background and stops it when ctx ends.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start blob cleanup worker: %w", err)
	}
	w.log.Info("Blob cleanup worker started")
	go func() {
		<-ctx.Done()
		w.server.Shutdown()
		w.log.Info("Blob cleanup worker stopped")
	}()
	return nil
}

// asynqLogger adapts the zap wrapper to asynq.Logger.
type asynqLogger struct{ log *logger.Logger }

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal(fmt.Sprint(args...)) }
