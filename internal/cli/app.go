package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/vladimiradmaev/diabetes-diary/internal/config"
	"github.com/vladimiradmaev/diabetes-diary/internal/kvstore"
	"github.com/vladimiradmaev/diabetes-diary/internal/logger"
	"github.com/vladimiradmaev/diabetes-diary/internal/report"
	"github.com/vladimiradmaev/diabetes-diary/internal/repository"
	"github.com/vladimiradmaev/diabetes-diary/internal/services"
)

// App wires the stores and services one command runs against
type App struct {
	Profiles  *services.ProfileService
	Entries   *services.EntryService
	Reports   *services.ReportService
	Dashboard *services.DashboardService
	Location  *time.Location
	Now       func() time.Time // stamps new entries and drives the home view

	store kvstore.Store
}

// NewApp builds the services over an opened store
func NewApp(store kvstore.Store, loc *time.Location, cacheSize int) (*App, error) {
	if loc == nil {
		loc = time.Local
	}
	cache, err := report.NewCache(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create report cache: %w", err)
	}

	app := &App{
		Location: loc,
		Now:      time.Now,
		store:    store,
	}
	profiles := repository.NewProfileRepository(store)
	entries := repository.NewEntryRepository(store).WithClock(func() time.Time { return app.Now() })

	app.Profiles = services.NewProfileService(profiles)
	app.Entries = services.NewEntryService(entries, profiles)
	app.Reports = services.NewReportService(entries, profiles, cache, loc)
	app.Dashboard = services.NewDashboardService(entries, profiles, loc)
	return app, nil
}

// Close releases the storage backend
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// AppFromEnv loads configuration, sets up logging and opens the configured store
func AppFromEnv(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.InitWithConfig(cfg.Logger.Logger()); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	logger.Debug("Storage opened", "backend", cfg.Storage.Backend)

	app, err := NewApp(store, loc, cfg.ReportCacheSize)
	if err != nil {
		store.Close()
		return nil, err
	}
	return app, nil
}
