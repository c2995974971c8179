package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/symptom-analyzer/internal/domain"
)

// CachedAnalyzer serves repeated texts from a result cache. Results only
// depend on the text, the catalog and the memoized model, so the key covers
// all three. Keys are digests; the text itself is never stored.
type CachedAnalyzer struct {
	logger    *logrus.Logger
	next      domain.SymptomAnalyzer
	cache     domain.ResultCache
	ttl       time.Duration
	keyPrefix string
}

// NewCachedAnalyzer wraps next. catalogVersion and modelFingerprint scope the
// keys so a changed catalog or model never serves stale results.
func NewCachedAnalyzer(logger *logrus.Logger, next domain.SymptomAnalyzer, cache domain.ResultCache, ttl time.Duration, catalogVersion, modelFingerprint string) *CachedAnalyzer {
	return &CachedAnalyzer{
		logger:    logger,
		next:      next,
		cache:     cache,
		ttl:       ttl,
		keyPrefix: catalogVersion + ":" + modelFingerprint + ":",
	}
}

// Analyze returns a cached copy when available. Cache failures are logged
// and never fail the analysis.
func (c *CachedAnalyzer) Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	key := c.key(text)

	if cached, ok := c.cache.Get(ctx, key); ok {
		c.logger.WithField("cache_key", key[len(keyNamespace):len(keyNamespace)+12]).Debug("Analysis cache hit")
		return cached.Clone(), nil
	}

	result, err := c.next.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, result.Clone(), c.ttl); err != nil {
		c.logger.WithError(err).Warn("Failed to cache analysis result")
	}
	return result, nil
}

const keyNamespace = "analysis:"

func (c *CachedAnalyzer) key(text string) string {
	sum := sha256.Sum256([]byte(c.keyPrefix + text))
	return keyNamespace + hex.EncodeToString(sum[:])
}
