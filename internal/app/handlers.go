package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/solutions-catalog/internal/http"
	httpH "github.com/yungbote/solutions-catalog/internal/http/handlers"
	"github.com/yungbote/solutions-catalog/internal/observability"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Solution *httpH.SolutionHandler
	Meta     *httpH.MetaHandler
	Upload   *httpH.UploadHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	ping := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(ping),
		Solution: httpH.NewSolutionHandler(log, services.Solutions, services.Uploads),
		Meta:     httpH.NewMetaHandler(services.Solutions),
		Upload:   httpH.NewUploadHandler(services.Uploads),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, images ImageStorage, metrics *observability.Metrics) *gin.Engine {
	tracing := ""
	if cfg.OtelEnabled {
		tracing = cfg.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		CORSOrigins:     cfg.CORSOrigins,
		TracingService:  tracing,
		StaticDir:       images.StaticDir,
		StaticPath:      images.StaticPath,
		HealthHandler:   handlers.Health,
		SolutionHandler: handlers.Solution,
		MetaHandler:     handlers.Meta,
		UploadHandler:   handlers.Upload,
	})
}
