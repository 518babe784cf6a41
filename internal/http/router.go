package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/storefront-admin/internal/http/handlers"
	httpMW "github.com/yungbote/storefront-admin/internal/http/middleware"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HeroVariantHandler *httpH.HeroVariantHandler
	UploadHandler      *httpH.UploadHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readycheck", cfg.HealthHandler.ReadyCheck)
	}

	api := r.Group("/api")

	// Storefront (public)
	if cfg.HeroVariantHandler != nil {
		api.GET("/public/hero", cfg.HeroVariantHandler.PublicHero)
	}

	admin := api.Group("")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAdmin())
		}

		if cfg.HeroVariantHandler != nil {
			admin.GET("/hero-variants", cfg.HeroVariantHandler.List)
			admin.POST("/hero-variants", cfg.HeroVariantHandler.Create)
			admin.GET("/hero-variants/:key", cfg.HeroVariantHandler.Get)
			admin.PATCH("/hero-variants/:key", cfg.HeroVariantHandler.Update)
			admin.DELETE("/hero-variants/:key", cfg.HeroVariantHandler.Delete)
			admin.POST("/hero-variants/:key/activate", cfg.HeroVariantHandler.Activate)
			admin.GET("/hero-variants/:key/preview", cfg.HeroVariantHandler.Preview)
		}

		if cfg.UploadHandler != nil {
			admin.POST("/uploads/hero-image", cfg.UploadHandler.HeroImage)
		}
	}

	return r
}
