package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/storefront-admin/internal/modules/hero"
	"github.com/yungbote/storefront-admin/internal/modules/hero/upload"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

type Services struct {
	Hero    hero.Usecases
	Uploads *upload.Service
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")
	deps := hero.UsecasesDeps{
		DB:       db,
		Log:      log,
		Variants: reposet.HeroVariant,
	}
	if clients.VariantCache != nil {
		deps.Cache = clients.VariantCache
	}
	return Services{
		Hero:    hero.New(deps),
		Uploads: upload.NewService(log, clients.Images, cfg.Upload),
	}
}
