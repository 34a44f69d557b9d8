package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"token_pulse/internal/feed"
	"token_pulse/internal/infra"
	"token_pulse/internal/infra/storage"
	"token_pulse/internal/service"
)

const summaryJob = "summary"

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config    *infra.Config
	Catalog   *storage.Catalog
	Metrics   *infra.Metrics
	Service   *service.DashboardService
	Scheduler *infra.Scheduler
	Debug     *infra.DebugServer
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, catalog, service)
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping Token Pulse...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	slog.SetDefault(infra.NewLogger(cfg))

	// 3. Open Catalog (DB)
	catalog, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Catalog = catalog
	slog.Info("✅ Catalog opened", slog.String("path", cfg.Storage.Path))

	// 4. Metrics + Dashboard
	b.Metrics = infra.NewMetrics("")
	svc, err := service.NewDashboardService(catalog, service.Options{
		Feed: feed.Config{
			Interval:  cfg.FeedInterval(),
			MaxChange: cfg.Feed.MaxChange,
			MinPrice:  cfg.Feed.MinPrice,
			Seed:      cfg.Feed.Seed,
		},
		RetryDelay: cfg.RetryDelay(),
		Metrics:    b.Metrics,
	})
	if err != nil {
		return b.closeCatalog(err)
	}
	b.Service = svc

	// 5. Scheduler
	b.Scheduler = infra.NewScheduler()
	if cfg.Summary.Schedule != "" {
		if err := b.Scheduler.AddJob(summaryJob, cfg.Summary.Schedule, b.logSummary); err != nil {
			b.Service.Close()
			return b.closeCatalog(err)
		}
	}

	// 6. Debug server (pprof + /metrics)
	if cfg.Debug.Enabled {
		b.Debug = infra.NewDebugServer(cfg.Debug.Addr, b.Metrics)
	}

	slog.Info("✅ Dashboard ready")
	return nil
}

// SyncSeed imports the YAML seed into an empty catalog. A populated catalog is left alone.
func (b *Bootstrap) SyncSeed() error {
	n, err := b.Catalog.Count()
	if err != nil {
		return fmt.Errorf("count catalog: %w", err)
	}
	if n > 0 {
		slog.Info("Catalog already populated", slog.Int64("tokens", n))
		return nil
	}

	seed, err := infra.SeedFile{Path: b.Config.Storage.SeedFile}.LoadSeed()
	if err != nil {
		return err
	}
	if err := b.Catalog.ImportSeed(seed); err != nil {
		return err
	}
	slog.Info("🔄 Seed imported", slog.String("file", b.Config.Storage.SeedFile), slog.Int("tokens", seed.Len()))
	return nil
}

// Run seeds the dashboard and starts the feed, scheduler and debug server.
func (b *Bootstrap) Run() error {
	if err := b.SyncSeed(); err != nil {
		return err
	}
	if err := b.Service.Seed(); err != nil {
		return err
	}

	b.Service.Start()
	b.Scheduler.Start()
	if b.Debug != nil {
		b.Debug.Start()
	}
	return nil
}

// Shutdown stops everything Run started, in reverse order.
func (b *Bootstrap) Shutdown(ctx context.Context) error {
	var errs []error
	if b.Debug != nil {
		if err := b.Debug.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("debug server: %w", err))
		}
	}
	if b.Scheduler != nil {
		b.Scheduler.Stop(ctx)
	}
	if b.Service != nil {
		b.Service.Close()
	}
	if b.Catalog != nil {
		if err := b.Catalog.Close(); err != nil {
			errs = append(errs, fmt.Errorf("catalog: %w", err))
		}
	}
	return errors.Join(errs...)
}

// closeCatalog releases the catalog after a failed Initialize and returns cause.
func (b *Bootstrap) closeCatalog(cause error) error {
	if err := b.Catalog.Close(); err != nil {
		slog.Warn("Catalog close failed", slog.Any("error", err))
	}
	b.Catalog = nil
	return cause
}

func (b *Bootstrap) logSummary() {
	slog.Info("📊 Dashboard summary", slog.Any("summary", b.Service.Summary()))
}
