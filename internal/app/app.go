// Package app assembles the search stack from configuration. The API server
// and the CLI both start from New.
package app

import (
	"context"
	"fmt"

	"github.com/reddy-lalith/PlayDex/internal/cache"
	"github.com/reddy-lalith/PlayDex/internal/config"
	"github.com/reddy-lalith/PlayDex/internal/hint"
	"github.com/reddy-lalith/PlayDex/internal/identity"
	"github.com/reddy-lalith/PlayDex/internal/nbastats"
	"github.com/reddy-lalith/PlayDex/internal/observability"
	"github.com/reddy-lalith/PlayDex/internal/query"
	"github.com/reddy-lalith/PlayDex/internal/retrieval"
	"github.com/reddy-lalith/PlayDex/internal/search"
	"github.com/reddy-lalith/PlayDex/internal/storage"
)

// App holds the wired components.
type App struct {
	Config       *config.Config
	Logger       *observability.Logger
	Reference    *storage.Reference
	Upstream     *nbastats.Client
	Cache        cache.Client
	Hints        hint.Provider
	Orchestrator *retrieval.Orchestrator
	Search       *search.Service
}

// NewLogger creates the process logger from configuration.
func NewLogger(cfg *config.Config) *observability.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
}

// New loads reference data and builds every component. A hint provider
// that cannot be created is logged and disabled.
func New(ctx context.Context, cfg *config.Config, logger *observability.Logger, opts ...nbastats.Option) (*App, error) {
	if logger == nil {
		logger = NewLogger(cfg)
	}

	ref, err := storage.LoadReference(ctx, cfg.Reference)
	if err != nil {
		return nil, fmt.Errorf("load reference: %w", err)
	}

	cacheClient, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	hints, err := hint.New(ctx, cfg.Hint)
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.Hint.Provider).Msg("Hint provider disabled")
		hints = hint.Disabled{}
	}

	upstream := nbastats.NewClient(cfg.Upstream, logger, opts...)
	strategies := []retrieval.Strategy{
		retrieval.NewPrimaryStrategy(upstream, cfg.Search, logger),
		retrieval.NewDeepScanStrategy(upstream, ref, retrieval.ScanConfigFrom(cfg.Search), logger),
		retrieval.NewKnownFactsStrategy(ref),
	}
	orch := retrieval.NewOrchestrator(strategies, cacheClient, upstream, retrieval.OrchestratorConfigFrom(cfg), logger)

	svc := search.NewService(
		query.NewParser(ref),
		identity.NewResolver(ref, upstream, logger),
		orch,
		hints,
		cfg.Search,
		logger,
	)

	logger.Info().
		Int("players", len(ref.Players())).
		Int("teams", len(ref.Teams())).
		Str("reference", cfg.Reference.Source).
		Str("cache", cfg.Cache.Driver).
		Str("hint", hints.Name()).
		Msg("Search stack ready")

	return &App{
		Config:       cfg,
		Logger:       logger,
		Reference:    ref,
		Upstream:     upstream,
		Cache:        cacheClient,
		Hints:        hints,
		Orchestrator: orch,
		Search:       svc,
	}, nil
}

// Ready checks the components a request depends on.
func (a *App) Ready(ctx context.Context) error {
	if err := a.Cache.Ping(ctx); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// Close releases the cache connection.
func (a *App) Close() error {
	return a.Cache.Close()
}
