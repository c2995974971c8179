// Package cache stores analysis results keyed by opaque digests: an
// in-process LRU with expiry, an optional shared Redis tier behind a circuit
// breaker, and a tiered combination of the two.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/symptom-analyzer/internal/domain"
)

// Defaults for the in-process cache
const (
	DefaultMaxItems = 1024
	DefaultTTL      = 15 * time.Minute
)

// MemoryCache is a bounded in-process cache. All entries share the TTL
// given at construction.
type MemoryCache struct {
	lru *expirable.LRU[string, *domain.AnalysisResult]
}

// NewMemoryCache creates a cache holding at most maxItems results.
func NewMemoryCache(maxItems int, ttl time.Duration) *MemoryCache {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{lru: expirable.NewLRU[string, *domain.AnalysisResult](maxItems, nil, ttl)}
}

// Get returns a copy of the cached result.
func (m *MemoryCache) Get(_ context.Context, key string) (*domain.AnalysisResult, bool) {
	r, ok := m.lru.Get(key)
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// Set stores a copy of result. The per-call ttl is ignored in favour of the
// cache-wide TTL.
func (m *MemoryCache) Set(_ context.Context, key string, result *domain.AnalysisResult, _ time.Duration) error {
	m.lru.Add(key, result.Clone())
	return nil
}

// Len returns the number of live entries.
func (m *MemoryCache) Len() int {
	return m.lru.Len()
}

// Close drops all entries.
func (m *MemoryCache) Close() error {
	m.lru.Purge()
	return nil
}
