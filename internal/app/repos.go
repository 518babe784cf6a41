package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/storefront-admin/internal/data/repos"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

type Repos struct {
	HeroVariant repos.HeroVariantRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		HeroVariant: repos.NewHeroVariantRepo(db, log),
	}
}
