package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/symptom-analyzer/internal/domain"
)

// TieredCache checks local memory first, then the shared tier, and
// back-fills local memory on shared hits.
type TieredCache struct {
	local  *MemoryCache
	shared domain.ResultCache
}

// NewTieredCache combines a local and a shared cache.
func NewTieredCache(local *MemoryCache, shared domain.ResultCache) *TieredCache {
	return &TieredCache{local: local, shared: shared}
}

func (t *TieredCache) Get(ctx context.Context, key string) (*domain.AnalysisResult, bool) {
	if r, ok := t.local.Get(ctx, key); ok {
		return r, true
	}
	r, ok := t.shared.Get(ctx, key)
	if !ok {
		return nil, false
	}
	_ = t.local.Set(ctx, key, r, 0)
	return r, true
}

func (t *TieredCache) Set(ctx context.Context, key string, result *domain.AnalysisResult, ttl time.Duration) error {
	_ = t.local.Set(ctx, key, result, ttl)
	return t.shared.Set(ctx, key, result, ttl)
}

func (t *TieredCache) Close() error {
	return errors.Join(t.local.Close(), t.shared.Close())
}

// New builds the result cache described by cfg: memory only, or memory in
// front of Redis when a URL is configured.
func New(ctx context.Context, cfg domain.CacheConfig, logger *logrus.Logger) (domain.ResultCache, error) {
	local := NewMemoryCache(cfg.MaxItems, cfg.TTL)
	if cfg.RedisURL == "" {
		logger.WithField("max_items", cfg.MaxItems).Info("Using in-memory result cache")
		return local, nil
	}

	shared, err := NewRedisCache(ctx, cfg.RedisURL, cfg.Breaker, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared cache: %w", err)
	}
	logger.WithField("max_items", cfg.MaxItems).Info("Using tiered memory and Redis result cache")
	return NewTieredCache(local, shared), nil
}
