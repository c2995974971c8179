// Package app assembles the analysis pipeline from configuration. Every
// binary goes through Bootstrap so they share one wiring.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/symptom-analyzer/internal/cache"
	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/domain"
	"github.com/symptom-analyzer/internal/service"
)

// App holds the wired components.
type App struct {
	Config     *domain.Config
	Logger     *logrus.Logger
	Catalog    *catalog.Catalog
	Classifier *service.NeuralClassifier
	Analyzer   domain.SymptomAnalyzer

	cache domain.ResultCache
}

// Bootstrap loads the catalog, creates the classifier and analyzer and, when
// enabled, puts the result cache in front of the analyzer. A shared cache
// that cannot be reached degrades to the in-memory cache.
func Bootstrap(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) (*App, error) {
	c, err := catalog.Open(ctx, cfg.Catalog, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	classifier := service.NewNeuralClassifier(logger, c, cfg.Classifier)
	if cfg.Classifier.EagerInit {
		if err := classifier.Warmup(); err != nil {
			return nil, fmt.Errorf("failed to initialize classifier: %w", err)
		}
	}

	a := &App{
		Config:     cfg,
		Logger:     logger,
		Catalog:    c,
		Classifier: classifier,
		Analyzer:   service.NewAnalyzer(logger, c, classifier),
	}

	if !cfg.Cache.Enabled {
		return a, nil
	}

	// The cache key includes the model fingerprint, so the model is built now
	fingerprint, err := classifier.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize classifier: %w", err)
	}

	rc, err := cache.New(ctx, cfg.Cache, logger)
	if err != nil {
		logger.WithError(err).Warn("Shared result cache unavailable, using in-memory cache")
		rc = cache.NewMemoryCache(cfg.Cache.MaxItems, cfg.Cache.TTL)
	}
	a.cache = rc
	a.Analyzer = service.NewCachedAnalyzer(logger, a.Analyzer, rc, cfg.Cache.TTL, c.Version(), fingerprint)

	return a, nil
}

// Close releases the result cache.
func (a *App) Close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}
