package commands

import (
	"context"
	"fmt"

	"foodintel/cache"
	"foodintel/catalog"
	"foodintel/clients"
	"foodintel/config"
	"foodintel/database"
	"foodintel/logger"
	"foodintel/services"
)

// stack is the set of services built from one configuration.
type stack struct {
	caps     config.Capabilities
	catalog  *catalog.Catalog
	market   *services.MarketService
	reports  *services.ReportService
	shopping *services.ShoppingService
	registry *services.RegistryService

	closers []func()
}

func (s *stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// buildStack wires the collaborators whose credentials are configured.
// Collaborators that are not configured stay nil interfaces so the services
// report them as disabled.
func buildStack(ctx context.Context, cfg config.Config, log *logger.Logger) (*stack, error) {
	s := &stack{caps: cfg.Capabilities()}

	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	s.catalog = cat

	var (
		shopping services.ShoppingSearcher
		trend    services.TrendSearcher
		registry services.RegistryFetcher
		gen      services.TextGenerator
		archive  services.ReportArchive
		store    cache.Client = cache.Nop{}
	)

	if s.caps.Commerce || s.caps.Trend {
		naver := clients.NewNaverClient(cfg.Naver, nil)
		if s.caps.Commerce {
			shopping = naver
		}
		if s.caps.Trend {
			trend = naver
		}
	}
	if s.caps.Registry {
		registry = clients.NewRegistryClient(cfg.Registry, nil, log)
	}

	if s.caps.Cache {
		rc, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without a cache")
			s.caps.Cache = false
		} else {
			store = rc
			s.closers = append(s.closers, func() { _ = rc.Close() })
		}
	}

	if s.caps.Archive {
		pool, err := database.Connect(ctx, cfg.Database.URL)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("connect report archive: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		if err := database.Migrate(ctx, pool); err != nil {
			s.Close()
			return nil, err
		}
		archive = database.NewReportStore(pool)
	}

	if s.caps.LLM {
		gc, err := clients.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			s.Close()
			return nil, err
		}
		gen = gc
		s.closers = append(s.closers, func() { _ = gc.Close() })
	}

	s.market = services.NewMarketService(services.MarketDeps{
		Catalog:   cat,
		Shopping:  shopping,
		Trend:     trend,
		Cache:     store,
		CacheTTL:  cfg.Cache.TTL,
		Analytics: cfg.Analytics,
		Logger:    log,
	})
	s.reports = services.NewReportService(services.ReportDeps{
		Market:    s.market,
		Generator: gen,
		Archive:   archive,
		Language:  cfg.Gemini.Language,
		Logger:    log,
	})
	s.shopping = services.NewShoppingService(shopping)
	s.registry = services.NewRegistryService(registry)

	log.Info().
		Bool("commerce", s.caps.Commerce).
		Bool("trend", s.caps.Trend).
		Bool("registry", s.caps.Registry).
		Bool("llm", s.caps.LLM).
		Bool("archive", s.caps.Archive).
		Bool("cache", s.caps.Cache).
		Msg("capabilities")
	return s, nil
}
