package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/storefront-admin/internal/data/db"
	"github.com/yungbote/storefront-admin/internal/modules/hero/upload"
	"github.com/yungbote/storefront-admin/internal/observability"
	"github.com/yungbote/storefront-admin/internal/platform/envutil"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

type Config struct {
	Port         string   `validate:"required,numeric"`
	AdminSecret  string   `validate:"required,min=16"`
	CORSOrigins  []string `validate:"dive,url"`
	SeedDefaults bool

	DB      db.Config
	Upload  upload.Config
	Tracing observability.TracingConfig

	// Optional integrations; empty disables them.
	RedisAddr  string
	HeroBucket string
}

var validate = validator.New()

// LoadConfig reads the process environment and validates the result.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:         envutil.String("PORT", "8080"),
		AdminSecret:  envutil.String("ADMIN_JWT_SECRET", ""),
		CORSOrigins:  envutil.List("CORS_ALLOW_ORIGINS", nil),
		SeedDefaults: envutil.Bool("HERO_SEED_DEFAULTS", false),
		DB:           db.ConfigFromEnv(),
		Upload:       upload.ConfigFromEnv(),
		Tracing:      observability.TracingConfigFromEnv(),
		RedisAddr:    envutil.String("REDIS_ADDR", ""),
		HeroBucket:   envutil.String("HERO_GCS_BUCKET_NAME", ""),
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	if log != nil {
		log.Info("config loaded",
			"port", cfg.Port,
			"db_driver", cfg.DB.Driver,
			"redis", cfg.RedisAddr != "",
			"hero_bucket", cfg.HeroBucket,
			"seed_defaults", cfg.SeedDefaults,
			"tracing", cfg.Tracing.Enabled,
		)
	}
	return cfg, nil
}
