package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-analyzer/internal/domain"
)

type fakeShared struct {
	items  map[string]*domain.AnalysisResult
	gets   int
	setErr error
	closed bool
}

func (f *fakeShared) Get(_ context.Context, key string) (*domain.AnalysisResult, bool) {
	f.gets++
	r, ok := f.items[key]
	return r, ok
}

func (f *fakeShared) Set(_ context.Context, key string, r *domain.AnalysisResult, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.items[key] = r
	return nil
}

func (f *fakeShared) Close() error {
	f.closed = true
	return nil
}

func TestTieredCacheBackfillsLocal(t *testing.T) {
	ctx := context.Background()
	shared := &fakeShared{items: map[string]*domain.AnalysisResult{"k": sampleResult()}}
	tc := NewTieredCache(NewMemoryCache(10, time.Minute), shared)

	got, ok := tc.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "Migraine", got.Condition)
	assert.Equal(t, 1, shared.gets)

	_, ok = tc.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 1, shared.gets, "second lookup is served locally")

	_, ok = tc.Get(ctx, "other")
	assert.False(t, ok)
}

func TestTieredCacheSet(t *testing.T) {
	ctx := context.Background()
	shared := &fakeShared{items: map[string]*domain.AnalysisResult{}, setErr: errors.New("down")}
	local := NewMemoryCache(10, time.Minute)
	tc := NewTieredCache(local, shared)

	err := tc.Set(ctx, "k", sampleResult(), time.Minute)
	assert.Error(t, err)

	_, ok := local.Get(ctx, "k")
	assert.True(t, ok, "local tier is written even when the shared tier fails")

	require.NoError(t, tc.Close())
	assert.True(t, shared.closed)
}

func TestNewMemoryOnly(t *testing.T) {
	c, err := New(context.Background(), domain.CacheConfig{Enabled: true, MaxItems: 5, TTL: time.Minute}, quietLogger())
	require.NoError(t, err)
	_, ok := c.(*MemoryCache)
	assert.True(t, ok)
}

func TestNewRedisUnavailable(t *testing.T) {
	_, err := New(context.Background(), domain.CacheConfig{
		Enabled:  true,
		RedisURL: "redis://127.0.0.1:1/0?dial_timeout=50ms",
	}, quietLogger())
	assert.ErrorContains(t, err, "failed to create shared cache")
}
