package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tournevent/freightbench/internal/account"
	"github.com/tournevent/freightbench/internal/benchmark"
	"github.com/tournevent/freightbench/internal/compare"
	"github.com/tournevent/freightbench/internal/config"
	"github.com/tournevent/freightbench/internal/kvstore"
	"github.com/tournevent/freightbench/internal/quota"
	"github.com/tournevent/freightbench/internal/routecache"
	"github.com/tournevent/freightbench/internal/telemetry"
	"github.com/tournevent/freightbench/pkg/board"
	"github.com/tournevent/freightbench/pkg/board/dat"
	"github.com/tournevent/freightbench/pkg/board/simulated"
	"github.com/tournevent/freightbench/pkg/distance"
	"github.com/tournevent/freightbench/pkg/mapquest"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version, cfg.Attributes()...)
	return shutdown, err
}

// app is the wired service graph shared by the serve and estimate commands.
type app struct {
	pool       *pgxpool.Pool
	provider   distance.Provider
	registry   *board.Registry
	searches   *benchmark.Service
	tracker    *benchmark.Tracker
	comparator *compare.Comparator
	accounts   *account.Service
	metrics    *telemetry.Metrics
}

func initApp(ctx context.Context, cfg *config.Config, logger *otelzap.Logger) (*app, error) {
	tracer := otel.GetTracerProvider().Tracer(cfg.ServiceName)

	store, pool, err := initStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	provider := initDistanceProvider(cfg, logger, tracer)
	registry := initBoardRegistry(cfg, logger, tracer)
	metrics := telemetry.NewMetrics()

	searches := benchmark.NewService(benchmark.Deps{
		Provider: provider,
		Cache:    routecache.New(store),
		Gate:     quota.New(store, cfg.QuotaLimit),
		Registry: registry,
		Logger:   logger,
		Metrics:  metrics,
		Tracer:   tracer,
	})
	comparator := compare.New()
	searches.Publisher().Subscribe(comparator.OnSummary)

	return &app{
		pool:       pool,
		provider:   provider,
		registry:   registry,
		searches:   searches,
		tracker:    benchmark.NewTracker(searches),
		comparator: comparator,
		accounts:   account.NewService(store, logger),
		metrics:    metrics,
	}, nil
}

// Close releases the database pool, if any.
func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func initStore(ctx context.Context, cfg *config.Config) (kvstore.Store, *pgxpool.Pool, error) {
	if !cfg.PersistentStorage() {
		return kvstore.NewMemory(), nil, nil
	}

	pool, err := kvstore.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	store, err := kvstore.NewPostgres(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool, nil
}

func initDistanceProvider(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) distance.Provider {
	if !cfg.MapQuestUseMock && cfg.MapQuestAPIKey == "" {
		logger.Warn("MAPQUEST_API_KEY is not set; mileage lookups will fail")
	}
	client := mapquest.New(mapquest.Config{
		APIKey:  cfg.MapQuestAPIKey,
		BaseURL: cfg.MapQuestBaseURL,
		UseMock: cfg.MapQuestUseMock,
	}, logger, tracer)
	return distance.NewByName(cfg.DistanceProvider, client)
}

func initBoardRegistry(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *board.Registry {
	registry := board.NewRegistry()

	// Register enabled boards
	if cfg.DATEnabled {
		registry.Register(dat.New(dat.Config{
			APIKey:  cfg.DATAPIKey,
			BaseURL: cfg.DATBaseURL,
			UseMock: cfg.DATUseMock,
		}, logger, tracer))
	}

	if cfg.SimulatedBoardsEnabled {
		seed := cfg.SimulatedSeed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		presets := append(append([]simulated.Preset{}, simulated.DomesticPresets...), simulated.InternationalPresets...)
		for _, b := range simulated.NewAll(presets, seed) {
			registry.Register(b)
		}
		logger.Debug("Simulated boards enabled", zap.Uint64("seed", seed))
	}

	return registry
}
