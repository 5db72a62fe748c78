package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/skinlens/backend/config"
	"github.com/skinlens/backend/internal/domain"
	"github.com/skinlens/backend/internal/infrastructure/cache"
	"github.com/skinlens/backend/internal/infrastructure/catalog"
	"github.com/skinlens/backend/internal/infrastructure/classifier"
	"github.com/skinlens/backend/internal/usecase"
)

// newCache returns the configured cache and a function releasing it
func newCache(cfg *config.Config) (domain.CacheRepository, func()) {
	if cfg.Cache.Type != "memory" {
		return nil, func() {}
	}
	mc := cache.NewMemoryCache()
	return mc, func() { _ = mc.Close() }
}

// newClassifier loads the configured classifier. Type "none" yields nil.
func newClassifier(cfg *config.Config, logger *zap.Logger) (domain.Classifier, error) {
	switch cfg.Model.Type {
	case "linear":
		model, err := classifier.LoadLinearModel(cfg.Model.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("linear model loaded",
			zap.String("path", cfg.Model.Path),
			zap.String("version", model.Version()),
			zap.Strings("labels", model.Labels()))
		return model, nil

	case "remote":
		client := classifier.NewRemoteClient(cfg.Model.RemoteURL, cfg.Model.Timeout, cfg.Model.RateLimit, logger)
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
		}
		logger.Info("remote model configured",
			zap.String("url", cfg.Model.RemoteURL),
			zap.Duration("timeout", cfg.Model.Timeout),
			zap.Float64("rateLimit", cfg.Model.RateLimit))
		return client, nil

	case "none":
		logger.Warn("no classifier configured, analysis requests will fail")
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown model type %q", cfg.Model.Type)
	}
}

// newCatalog builds the flag catalog, reading catalog.path when set
func newCatalog(cfg *config.Config, logger *zap.Logger) (*usecase.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return usecase.DefaultCatalog(), nil
	}

	lists, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	irritants, comedogenic := lists.Merge(usecase.DefaultIrritants, usecase.DefaultComedogenic)
	c := usecase.NewCatalog(irritants, comedogenic)
	logger.Info("flag catalog loaded",
		zap.String("path", cfg.Catalog.Path),
		zap.Bool("extendDefaults", lists.ExtendDefaults),
		zap.Int("entries", c.Size()))
	return c, nil
}

// newAnalysisService wires cache, classifier and catalog together. The
// returned cleanup must be called once the service is no longer used.
func newAnalysisService(cfg *config.Config, logger *zap.Logger) (*usecase.AnalysisService, func(), error) {
	flagCatalog, err := newCatalog(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	model, err := newClassifier(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	repo, closeCache := newCache(cfg)

	svc := usecase.NewAnalysisService(repo, model, flagCatalog, usecase.AnalysisServiceConfig{
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger,
	})
	return svc, closeCache, nil
}
