package repos

import (
	"github.com/yungbote/storefront-admin/internal/data/repos/hero"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
	"gorm.io/gorm"
)

type HeroVariantRepo = hero.HeroVariantRepo

func NewHeroVariantRepo(db *gorm.DB, baseLog *logger.Logger) HeroVariantRepo {
	return hero.NewHeroVariantRepo(db, baseLog)
}
