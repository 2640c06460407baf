package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"study-planner/internal/catalog"
	"study-planner/internal/config"
	"study-planner/internal/pkg/logger"
	"study-planner/internal/repository"
	"study-planner/internal/service"
)

// App holds the wired services shared by all subcommands.
type App struct {
	Config    config.Config
	Log       *logger.Logger
	DB        *gorm.DB
	Progress  *service.ProgressService
	Ranker    *service.PriorityRanker
	Planner   *service.Planner
	Projector *service.Projector
	Reports   *service.ReportService

	clock   func() time.Time
	closers []func() error
}

// AppOptions tweak how NewApp wires storage.
type AppOptions struct {
	// NeedUsers opens the SQL database even when the catalog lives elsewhere.
	NeedUsers bool
	Now       func() time.Time
}

// NewApp builds the catalog, loads stored progress and wires the services.
// A failing catalog store is logged and the in-memory catalog is kept.
func NewApp(ctx context.Context, cfg config.Config, log *logger.Logger, opts AppOptions) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	app := &App{Config: cfg, Log: log, clock: opts.Now}

	cat := catalog.NewDefault()
	if cfg.CatalogFile != "" {
		courses, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		cat = catalog.New(courses)
		log.Info("catalog file loaded", "path", cfg.CatalogFile, "courses", len(courses))
	}

	if cfg.CatalogStore == config.StoreSQLite || opts.NeedUsers {
		db, err := repository.NewDB(cfg.DatabaseURL, log.StdLog(zapcore.WarnLevel))
		if err != nil {
			return nil, err
		}
		app.DB = db
		if sqlDB, err := db.DB(); err == nil {
			app.closers = append(app.closers, sqlDB.Close)
		}
	}

	store, err := app.catalogStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Progress = service.NewProgressService(cat, store, log)
	if err := app.Progress.Load(ctx); err != nil {
		log.Warn("catalog store unavailable, using in-memory catalog", "store", cfg.CatalogStore, "error", err)
	}

	plannerCfg := cfg.Planner()
	app.Ranker = service.NewPriorityRanker(cat, plannerCfg.ReferenceMarks)
	app.Planner = service.NewPlanner(cat, plannerCfg)
	app.Projector = service.NewProjector(cat, cfg.Projection(), opts.Now)
	app.Reports = service.NewReportService(cat, app.Ranker, app.Planner, app.Projector)

	return app, nil
}

func (a *App) catalogStore(ctx context.Context) (service.CatalogStore, error) {
	switch a.Config.CatalogStore {
	case config.StoreSQLite:
		return repository.NewCatalogRepository(a.DB), nil
	case config.StoreRedis:
		store, err := repository.NewRedisCatalogStore(ctx, a.Config.RedisURL, repository.DefaultCatalogKey)
		if err != nil {
			a.Log.Warn("redis unavailable, progress will not be persisted", "error", err)
			return repository.NopCatalogStore{}, nil
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	case config.StoreMemory:
		return repository.NopCatalogStore{}, nil
	default:
		return nil, fmt.Errorf("unknown catalog store %q", a.Config.CatalogStore)
	}
}

// Now is the clock used for "today".
func (a *App) Now() time.Time {
	return a.clock()
}

// Close releases database and redis connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close resource", "error", err)
		}
	}
	a.closers = nil
}
