package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-admin/internal/data/db"
	"github.com/yungbote/storefront-admin/internal/http"
	"github.com/yungbote/storefront-admin/internal/observability"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	pg            *db.PostgresService
	traceShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	traceShutdown := observability.InitTracing(ctx, log, cfg.Tracing)

	pg, err := db.NewPostgresService(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, err
	}
	reposet := wireRepos(pg.DB(), log)
	serviceset := wireServices(pg.DB(), log, cfg, reposet, clients)
	handlerset := wireHandlers(log, serviceset, pg, clients)
	router := wireRouter(log, cfg, handlerset)

	if cfg.SeedDefaults {
		n, err := serviceset.Hero.SeedDefaults(ctx)
		if err != nil {
			log.Warn("seeding hero variants failed", "error", err)
		} else if n > 0 {
			log.Info("seeded hero variants", "count", n)
		}
	}

	return &App{
		Log:           log,
		DB:            pg.DB(),
		Router:        router,
		Cfg:           cfg,
		Repos:         reposet,
		Services:      serviceset,
		Clients:       clients,
		pg:            pg,
		traceShutdown: traceShutdown,
	}, nil
}

// Run serves HTTP and, when Redis is configured, listens for cache
// invalidations from peer instances. It returns when ctx is done or either
// part fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + a.Cfg.Port
		a.Log.Info("HTTP server listening", "addr", addr)
		return (&http.Server{Engine: a.Router}).Run(ctx, addr)
	})
	if a.Clients.VariantCache != nil {
		g.Go(func() error { return a.Clients.VariantCache.Run(ctx) })
	}
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients.VariantCache != nil {
		_ = a.Clients.VariantCache.Close()
	}
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.traceShutdown != nil {
		_ = a.traceShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
