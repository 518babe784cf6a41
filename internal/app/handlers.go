package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-admin/internal/data/db"
	"github.com/yungbote/storefront-admin/internal/http"
	httpH "github.com/yungbote/storefront-admin/internal/http/handlers"
	httpMW "github.com/yungbote/storefront-admin/internal/http/middleware"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	HeroVariant *httpH.HeroVariantHandler
	Upload      *httpH.UploadHandler
}

func wireHandlers(log *logger.Logger, services Services, pg *db.PostgresService, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{"database": pg.Ping}
	if clients.VariantCache != nil {
		checks["redis"] = clients.VariantCache.Ping
	}
	return Handlers{
		Health:      httpH.NewHealthHandler(checks),
		HeroVariant: httpH.NewHeroVariantHandler(log, services.Hero),
		Upload:      httpH.NewUploadHandler(log, services.Uploads),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers) *gin.Engine {
	serviceName := ""
	if cfg.Tracing.Enabled {
		serviceName = cfg.Tracing.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:                log,
		ServiceName:        serviceName,
		CORSOrigins:        cfg.CORSOrigins,
		AuthMiddleware:     httpMW.NewAuthMiddleware(log, cfg.AdminSecret),
		HeroVariantHandler: handlers.HeroVariant,
		UploadHandler:      handlers.Upload,
		HealthHandler:      handlers.Health,
	})
}
