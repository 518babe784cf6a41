package db

import (
	"github.com/yungbote/storefront-admin/internal/domain/hero"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&hero.Variant{},
	)
}
