package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/solutions-catalog/internal/http/handlers"
	httpMW "github.com/yungbote/solutions-catalog/internal/http/middleware"
	"github.com/yungbote/solutions-catalog/internal/observability"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string

	// TracingService names the otelgin middleware; empty disables it.
	TracingService string

	// StaticDir is served under StaticPath when images live on local disk.
	StaticDir  string
	StaticPath string

	SolutionHandler *httpH.SolutionHandler
	MetaHandler     *httpH.MetaHandler
	UploadHandler   *httpH.UploadHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics", "/healthcheck", "/readyz"))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}
	if cfg.StaticDir != "" && cfg.StaticPath != "" {
		r.Static(cfg.StaticPath, cfg.StaticDir)
	}

	api := r.Group("/api")
	{
		if cfg.SolutionHandler != nil {
			api.GET("/solutions", cfg.SolutionHandler.List)
			api.POST("/solutions", cfg.SolutionHandler.Create)
			api.GET("/solutions/:id", cfg.SolutionHandler.Get)
			api.PUT("/solutions/:id", cfg.SolutionHandler.Update)
			api.DELETE("/solutions/:id", cfg.SolutionHandler.Delete)
			api.POST("/solutions/:id/like", cfg.SolutionHandler.Like)
			api.GET("/books/:bookTitle/solutions", cfg.SolutionHandler.ListByBook)
		}

		if cfg.MetaHandler != nil {
			api.GET("/stats", cfg.MetaHandler.Stats)
			api.GET("/filters", cfg.MetaHandler.Filters)
			api.GET("/video-info", cfg.MetaHandler.VideoInfo)
		}

		if cfg.UploadHandler != nil {
			api.POST("/uploads", cfg.UploadHandler.UploadImage)
		}
	}

	return r
}
