package app

import (
	"fmt"

	"github.com/yungbote/storefront-admin/internal/clients/redis"
	"github.com/yungbote/storefront-admin/internal/platform/gcp"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

type Clients struct {
	// Nil when REDIS_ADDR is unset.
	VariantCache *redis.VariantCache
	// Nil when HERO_GCS_BUCKET_NAME is unset; uploads then answer 503.
	Images gcp.ImageStore
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	if cfg.RedisAddr != "" {
		cache, err := redis.NewVariantCache(log)
		if err != nil {
			return out, fmt.Errorf("init redis variant cache: %w", err)
		}
		out.VariantCache = cache
	} else {
		log.Warn("REDIS_ADDR not set; hero variant list cache disabled")
	}

	if cfg.HeroBucket != "" {
		storageCfg, err := gcp.StorageConfigFromEnv()
		if err != nil {
			return out, err
		}
		store, err := gcp.NewImageStore(log, storageCfg)
		if err != nil {
			return out, fmt.Errorf("init hero image store: %w", err)
		}
		out.Images = store
	} else {
		log.Warn("HERO_GCS_BUCKET_NAME not set; hero image uploads disabled")
	}
	return out, nil
}
