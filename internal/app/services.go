package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/solutions-catalog/internal/platform/logger"
	"github.com/yungbote/solutions-catalog/internal/services"
)

type Services struct {
	Solutions services.SolutionService
	Uploads   services.UploadService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Solutions: services.NewSolutionService(db, log, repos.Solutions, clients.Cache, clients.Cleaner, services.SolutionServiceConfig{
			StoreOpTimeout: cfg.StoreOpTimeout,
			CacheTTL:       cfg.CacheTTL,
			TopBooks:       cfg.TopBooks,
		}),
		Uploads: services.NewUploadService(log, clients.Images.Store, cfg.MaxUploadBytes),
	}
}
