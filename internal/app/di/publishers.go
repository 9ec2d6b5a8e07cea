package di

import (
	"context"
	"log/slog"

	"gold_fairvalue/internal/feature/fairvalue/adapters"
	"gold_fairvalue/internal/feature/fairvalue/usecase"
	"gold_fairvalue/internal/platform/config"
	"gold_fairvalue/internal/platform/db"
	infrahttp "gold_fairvalue/internal/platform/http"
	"gold_fairvalue/internal/platform/metrics"
	infraredis "gold_fairvalue/internal/platform/redis"
)

// NewSecondaryPublishers creates the optional snapshot sinks that are configured.
// A sink that cannot be initialised is logged and skipped; the JSON file remains the only required output.
// The returned cleanup closes every opened connection.
func NewSecondaryPublishers(ctx context.Context, cfg *config.Config) ([]usecase.SnapshotPublisher, func()) {
	var (
		pubs    []usecase.SnapshotPublisher
		closers []func()
	)

	// Redis
	redisCfg := infraredis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if redisCfg.Enabled() {
		if rdb, err := infraredis.NewRedisClient(ctx, redisCfg); err != nil {
			slog.Warn("Redis unavailable. Running without redis snapshot.", "error", err)
		} else {
			pubs = append(pubs, adapters.NewSnapshotRedis(rdb, cfg.Redis.Key, cfg.Redis.TTL))
			closers = append(closers, func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			})
		}
	}

	// SQL
	if cfg.Database.DSN != "" {
		if gdb, err := db.ConnectWithRetry(ctx, cfg.Database.DSN, cfg.Database.ConnectTimeout, db.Open); err != nil {
			slog.Warn("database unavailable. Running without sql snapshot.", "error", err)
		} else if err := adapters.AutoMigrate(gdb); err != nil {
			slog.Warn("failed to migrate snapshot table", "error", err)
		} else {
			pubs = append(pubs, adapters.NewSnapshotSQL(gdb))
			closers = append(closers, func() {
				if sqlDB, err := gdb.DB(); err == nil {
					_ = sqlDB.Close()
				}
			})
		}
	}

	// Pushgateway
	if cfg.Pushgateway.URL != "" {
		pusher := metrics.NewPusher(cfg.Pushgateway.URL, cfg.Pushgateway.Job, infrahttp.NewHTTPClient(cfg.HTTPTimeout))
		pubs = append(pubs, adapters.NewSnapshotMetrics(pusher))
	}

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return pubs, cleanup
}

// NewSnapshotUsecase wires providers, modes, bounds and publishers into the snapshot use case.
func NewSnapshotUsecase(ctx context.Context, cfg *config.Config) (*usecase.SnapshotUsecase, func()) {
	feeds := NewFeeds(cfg, NewTwelveData(cfg), NewYahoo(cfg))
	secondary, cleanup := NewSecondaryPublishers(ctx, cfg)

	if cfg.TwelveData.APIKey == "" {
		slog.Warn("TWELVE_DATA_API_KEY is not set. Gold and FX prices will be null.")
	}

	uc := usecase.NewSnapshotUsecase(
		feeds,
		NewModes(cfg),
		NewSanityBounds(cfg),
		config.JST,
		adapters.NewSnapshotFile(cfg.OutputPath),
		secondary...,
	)
	return uc, cleanup
}
