package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/solutions-catalog/internal/jobs/blobcleanup"
	"github.com/yungbote/solutions-catalog/internal/platform/cache"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
	"github.com/yungbote/solutions-catalog/internal/services"
)

type Clients struct {
	Redis    *goredis.Client
	Cache    services.Cache
	Images   ImageStorage
	Cleaner  services.BlobCleaner
	enqueuer *blobcleanup.Enqueuer
	worker   *blobcleanup.Worker
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	images, err := resolveImageStorage(ctx, log, cfg)
	if err != nil {
		return Clients{}, err
	}
	out := Clients{Images: images}

	// Redis
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		log.Info("REDIS_ADDR not set; caching disabled and blob cleanup runs inline")
		out.Cleaner = blobcleanup.NewInline(log, images.Store)
		return out, nil
	}
	rdb, err := cache.NewClient(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		_ = images.Close()
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	out.Redis = rdb
	out.Cache = cache.NewJSONCache(log, rdb)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	out.enqueuer = blobcleanup.NewEnqueuer(log, redisOpt)
	out.worker = blobcleanup.NewWorker(log, redisOpt, images.Store, cfg.BlobCleanupConcurrency)
	out.Cleaner = out.enqueuer
	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.enqueuer != nil {
		_ = c.enqueuer.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if inline, ok := c.Cleaner.(*blobcleanup.Inline); ok {
		inline.Wait()
	}
	_ = c.Images.Close()
}
